package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haoyun/skill-trail/internal/protocol"
)

func TestNewMessage(t *testing.T) {
	t.Parallel()

	// Test creating a simple message
	payload := protocol.JoinRoomPayload{RoomCode: "1234", PlayerName: "测试玩家"}
	msg, err := NewMessage(protocol.MsgJoinRoom, payload)

	assert.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Equal(t, protocol.MsgJoinRoom, msg.Type)
	assert.NotEmpty(t, msg.Payload)
}

func TestNewMessage_NilPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(protocol.MsgGetRoomList, nil)

	assert.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Nil(t, msg.Payload)
}

func TestMustNewMessage_Panics(t *testing.T) {
	t.Parallel()

	// Channels cannot be marshaled to JSON
	assert.Panics(t, func() {
		MustNewMessage(protocol.MsgChat, make(chan int))
	})
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	// Setup original message
	payload := protocol.ChooseSkillPayload{SkillID: "shield"}
	originalMsg, err := NewMessage(protocol.MsgChooseSkill, payload)
	assert.NoError(t, err)

	// Encode
	bytes, err := Encode(originalMsg)
	assert.NoError(t, err)
	assert.NotEmpty(t, bytes)

	// Decode
	decodedMsg, err := Decode(bytes)
	assert.NoError(t, err)
	assert.NotNil(t, decodedMsg)

	// Verify
	assert.Equal(t, originalMsg.Type, decodedMsg.Type)
	assert.JSONEq(t, string(originalMsg.Payload), string(decodedMsg.Payload))
}

func TestEncode_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 1})

	data, err := Encode(msg)
	assert.NoError(t, err)
	assert.Equal(t, byte('}'), data[len(data)-1])

	// 返回的字节独立于池里的缓冲，连续编码互不影响
	data2, err := Encode(MustNewMessage(protocol.MsgGetRoomList, nil))
	assert.NoError(t, err)
	assert.NotEqual(t, string(data), string(data2))
	assert.Equal(t, byte('}'), data[len(data)-1])
}

func TestDecode_PooledMessageReset(t *testing.T) {
	t.Parallel()

	msg, err := Decode([]byte(`{"type":"chat","payload":{"content":"你好"}}`))
	assert.NoError(t, err)
	assert.Equal(t, protocol.MsgChat, msg.Type)
	assert.NotEmpty(t, msg.Payload)
	PutMessage(msg)

	// 归还后复用：上一条的 payload 不能串到下一条没有 payload 的消息里
	msg2, err := Decode([]byte(`{"type":"ping"}`))
	assert.NoError(t, err)
	assert.Equal(t, protocol.MsgPing, msg2.Type)
	assert.Empty(t, msg2.Payload)
	PutMessage(msg2)
}

func TestDecode_InvalidJSON(t *testing.T) {
	t.Parallel()

	msg, err := Decode([]byte("{not valid"))
	assert.Error(t, err)
	assert.Nil(t, msg)
}

func TestParsePayload(t *testing.T) {
	t.Parallel()

	original := protocol.CreateRoomPayload{
		PlayerName: "小明",
		RoomName:   "技能试炼",
		Mode:       "team",
	}
	msg := MustNewMessage(protocol.MsgCreateRoom, original)

	parsed, err := ParsePayload[protocol.CreateRoomPayload](msg)
	assert.NoError(t, err)
	assert.Equal(t, original.PlayerName, parsed.PlayerName)
	assert.Equal(t, original.RoomName, parsed.RoomName)
	assert.Equal(t, original.Mode, parsed.Mode)
}

func TestParsePayload_TypeMismatch(t *testing.T) {
	t.Parallel()

	msg := &protocol.Message{
		Type:    protocol.MsgChooseSkill,
		Payload: []byte(`[1,2,3]`),
	}

	_, err := ParsePayload[protocol.ChooseSkillPayload](msg)
	assert.Error(t, err)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(protocol.ErrCodeRoomNotFound)
	assert.Equal(t, protocol.MsgError, msg.Type)

	parsed, err := ParsePayload[protocol.ErrorPayload](msg)
	assert.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, parsed.Code)
	assert.Equal(t, protocol.ErrorMessages[protocol.ErrCodeRoomNotFound], parsed.Message)
}

func TestNewErrorMessageWithText(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "自定义错误")

	parsed, err := ParsePayload[protocol.ErrorPayload](msg)
	assert.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, parsed.Code)
	assert.Equal(t, "自定义错误", parsed.Message)
}

func TestNewJoinError(t *testing.T) {
	t.Parallel()

	msg := NewJoinError(protocol.ErrCodeRoomFull)
	assert.Equal(t, protocol.MsgJoinError, msg.Type)

	parsed, err := ParsePayload[protocol.ErrorPayload](msg)
	assert.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRoomFull, parsed.Code)
}

func TestNewGameError(t *testing.T) {
	t.Parallel()

	msg := NewGameError(protocol.ErrCodeNotLeader)
	assert.Equal(t, protocol.MsgGameError, msg.Type)

	parsed, err := ParsePayload[protocol.ErrorPayload](msg)
	assert.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeNotLeader, parsed.Code)
	assert.NotEmpty(t, parsed.Message)
}
