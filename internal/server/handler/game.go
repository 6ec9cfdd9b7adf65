package handler

import (
	"errors"

	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
	"github.com/haoyun/skill-trail/internal/server/session"
	"github.com/haoyun/skill-trail/internal/types"

	"github.com/haoyun/skill-trail/internal/apperrors"
)

// handleStartGame 处理房主开始游戏
func (h *Handler) handleStartGame(client types.ClientInterface) {
	room := h.roomManager.GetRoom(client.GetRoom())
	if room == nil {
		h.sendGameError(client, apperrors.ErrNotInRoom)
		return
	}

	if h.GetGameSession(room.Code) != nil {
		h.sendGameError(client, apperrors.ErrGameStarted)
		return
	}

	roomCode := room.Code
	gs := session.NewGameSession(room, h.rules, h.gameCfg, h.leaderboard, func() {
		// 对局结束：摘除会话并把重新公开的房间推回大厅列表
		h.SetGameSession(roomCode, nil)
		h.roomManager.BroadcastRoomList()
	})

	if err := gs.Start(client.GetID()); err != nil {
		h.sendGameError(client, err)
		return
	}

	h.SetGameSession(roomCode, gs)
	// 游戏开始后房间不再公开，刷新大厅列表
	h.roomManager.BroadcastRoomList()
}

// handleChooseSkill 处理回合技能选择。
// 无效选择静默忽略，不打断对局节奏。
func (h *Handler) handleChooseSkill(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ChooseSkillPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	gs := h.GetGameSession(client.GetRoom())
	if gs == nil {
		h.sendGameError(client, apperrors.ErrGameNotStart)
		return
	}

	gs.RecordChoice(client.GetID(), payload.SkillID)
}

// sendGameError 把对局操作错误转换为 game_error 回复
func (h *Handler) sendGameError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewGameError(gameErr.Code))
		return
	}
	client.SendMessage(codec.NewGameErrorWithText(protocol.ErrCodeUnknown, err.Error()))
}
