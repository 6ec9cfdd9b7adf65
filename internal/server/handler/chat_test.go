package handler

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	r "github.com/haoyun/skill-trail/internal/game/room"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
	"github.com/haoyun/skill-trail/internal/testutil"
)

func TestHandler_HandleChat_Lobby(t *testing.T) {
	mockServer := new(testutil.MockServer)
	mockClient := new(testutil.MockClient)
	mockLimiter := new(testutil.MockChatLimiter)

	h := NewHandler(HandlerDeps{
		Server:      mockServer,
		ChatLimiter: mockLimiter,
	})

	mockClient.On("GetID").Return("p1")
	mockClient.On("GetName").Return("Player1")
	mockLimiter.On("AllowChat", "p1").Return(true, "")

	// 大厅消息应广播给大厅
	mockServer.On("BroadcastToLobby", mock.MatchedBy(func(msg *protocol.Message) bool {
		return msg.Type == protocol.MsgChat
	})).Return()

	msg := codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{
		Content: "Hello World",
		Scope:   "lobby",
	})
	h.handleChat(mockClient, msg)

	mockServer.AssertExpectations(t)
	mockClient.AssertExpectations(t)
	mockLimiter.AssertExpectations(t)
}

func TestHandler_HandleChat_RateLimited(t *testing.T) {
	mockServer := new(testutil.MockServer)
	mockClient := new(testutil.MockClient)
	mockLimiter := new(testutil.MockChatLimiter)

	h := NewHandler(HandlerDeps{
		Server:      mockServer,
		ChatLimiter: mockLimiter,
	})

	mockClient.On("GetID").Return("p1")
	mockLimiter.On("AllowChat", "p1").Return(false, "说太快了")

	// 被限流时应收到错误消息
	mockClient.On("SendMessage", mock.MatchedBy(func(msg *protocol.Message) bool {
		return msg.Type == protocol.MsgError
	})).Return()

	msg := codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{Content: "Spam"})
	h.handleChat(mockClient, msg)

	mockServer.AssertExpectations(t)
	mockClient.AssertExpectations(t)
	mockLimiter.AssertExpectations(t)
}

func TestHandler_HandleChat_Room(t *testing.T) {
	mockServer := new(testutil.MockServer)
	mockLimiter := new(testutil.MockChatLimiter)

	sender := testutil.NewSimpleClient("p1", "Player1")
	peer := testutil.NewSimpleClient("p2", "Player2")
	room := r.NewMockRoom("123456", r.ModeSoloDuel, sender, peer)
	sender.SetRoom("123456")
	peer.SetRoom("123456")

	rm := r.NewRoomManager(nil, 10*time.Minute)
	rm.AddRoomForTest(room)

	h := NewHandler(HandlerDeps{
		Server:      mockServer,
		ChatLimiter: mockLimiter,
		RoomManager: rm,
	})

	mockLimiter.On("AllowChat", "p1").Return(true, "")

	msg := codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{
		Content: "Hello Room",
		Scope:   "room",
	})
	h.handleChat(sender, msg)

	// 双方都收到，且发送者信息已填充
	for _, c := range []*testutil.SimpleClient{sender, peer} {
		got := c.MessagesOfType(protocol.MsgChat)
		require.Len(t, got, 1)
		payload, err := codec.ParsePayload[protocol.ChatPayload](got[0])
		require.NoError(t, err)
		require.Equal(t, "p1", payload.SenderID)
		require.Equal(t, "Player1", payload.SenderName)
		require.Equal(t, "Hello Room", payload.Content)
		require.NotZero(t, payload.Time)
	}

	// 聊天记录留存，供后来者回放
	history := room.ChatHistory()
	require.Len(t, history, 1)
	require.Equal(t, "Hello Room", history[0].Content)

	mockLimiter.AssertExpectations(t)
}

func TestHandler_HandleChat_NotInRoom(t *testing.T) {
	mockLimiter := new(testutil.MockChatLimiter)
	mockLimiter.On("AllowChat", "p1").Return(true, "")

	sender := testutil.NewSimpleClient("p1", "Player1")
	rm := r.NewRoomManager(nil, 10*time.Minute)

	h := NewHandler(HandlerDeps{
		Server:      new(testutil.MockServer),
		ChatLimiter: mockLimiter,
		RoomManager: rm,
	})

	msg := codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{
		Content: "nobody hears",
		Scope:   "room",
	})
	h.handleChat(sender, msg)

	errs := sender.MessagesOfType(protocol.MsgError)
	require.Len(t, errs, 1)
	payload, err := codec.ParsePayload[protocol.ErrorPayload](errs[0])
	require.NoError(t, err)
	require.Equal(t, protocol.ErrCodeNotInRoom, payload.Code)
}

func TestHandler_HandleChat_TruncatesLongMessage(t *testing.T) {
	mockServer := new(testutil.MockServer)
	mockLimiter := new(testutil.MockChatLimiter)
	mockLimiter.On("AllowChat", "p1").Return(true, "")

	mockServer.On("BroadcastToLobby", mock.MatchedBy(func(msg *protocol.Message) bool {
		payload, err := codec.ParsePayload[protocol.ChatPayload](msg)
		return err == nil && len(payload.Content) == r.MaxChatMessage
	})).Return()

	sender := testutil.NewSimpleClient("p1", "Player1")
	h := NewHandler(HandlerDeps{
		Server:      mockServer,
		ChatLimiter: mockLimiter,
	})

	msg := codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{
		Content: strings.Repeat("a", r.MaxChatMessage+100),
		Scope:   "lobby",
	})
	h.handleChat(sender, msg)

	mockServer.AssertExpectations(t)
}

func TestHandler_HandleChat_TruncatesOnRuneBoundary(t *testing.T) {
	mockServer := new(testutil.MockServer)
	mockLimiter := new(testutil.MockChatLimiter)
	mockLimiter.On("AllowChat", "p1").Return(true, "")

	// 截断不能把多字节字符劈断
	mockServer.On("BroadcastToLobby", mock.MatchedBy(func(msg *protocol.Message) bool {
		payload, err := codec.ParsePayload[protocol.ChatPayload](msg)
		return err == nil &&
			len(payload.Content) <= r.MaxChatMessage &&
			utf8.ValidString(payload.Content)
	})).Return()

	sender := testutil.NewSimpleClient("p1", "Player1")
	h := NewHandler(HandlerDeps{
		Server:      mockServer,
		ChatLimiter: mockLimiter,
	})

	// 每个汉字 3 字节，500 不是 3 的倍数，按字节截断必然劈开一个字
	msg := codec.MustNewMessage(protocol.MsgChat, protocol.ChatPayload{
		Content: strings.Repeat("安", r.MaxChatMessage),
		Scope:   "lobby",
	})
	h.handleChat(sender, msg)

	mockServer.AssertExpectations(t)
}
