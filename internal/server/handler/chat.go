package handler

import (
	"time"
	"unicode/utf8"

	"github.com/haoyun/skill-trail/internal/game/room"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
	"github.com/haoyun/skill-trail/internal/types"
)

// handleChat 处理聊天消息
func (h *Handler) handleChat(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ChatPayload](msg)
	if err != nil {
		return
	}

	if payload.Content == "" {
		return
	}
	if len(payload.Content) > room.MaxChatMessage {
		// 在字符边界截断，避免把多字节字符劈成两半
		cut := room.MaxChatMessage
		for cut > 0 && !utf8.RuneStart(payload.Content[cut]) {
			cut--
		}
		payload.Content = payload.Content[:cut]
	}

	// 聊天限流检查
	if h.chatLimiter != nil {
		allowed, reason := h.chatLimiter.AllowChat(client.GetID())
		if !allowed {
			client.SendMessage(codec.NewErrorMessageWithText(
				protocol.ErrCodeRateLimit, reason))
			return
		}
	}

	// 填充发送者信息
	payload.SenderID = client.GetID()
	payload.SenderName = client.GetName()
	payload.Time = time.Now().Unix()

	// 大厅聊天：广播给所有大厅玩家
	if payload.Scope != "room" {
		payload.Scope = "lobby"
		h.server.BroadcastToLobby(codec.MustNewMessage(protocol.MsgChat, *payload))
		return
	}

	// 房间聊天：检查房间状态
	roomCode := client.GetRoom()
	if roomCode == "" {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeNotInRoom, "不在房间中，无法发送房间消息"))
		return
	}

	r := h.roomManager.GetRoom(roomCode)
	if r == nil {
		return
	}

	// 补上发送者队伍，方便客户端按队伍着色
	players, _ := r.RosterInfo()
	for _, p := range players {
		if p.PlayerID == payload.SenderID {
			payload.TeamID = p.TeamID
			break
		}
	}

	r.AppendChat(*payload)
	r.Broadcast(codec.MustNewMessage(protocol.MsgChat, *payload))
}
