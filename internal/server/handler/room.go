package handler

import (
	"errors"
	"strings"

	"github.com/haoyun/skill-trail/internal/game/room"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
	"github.com/haoyun/skill-trail/internal/types"

	"github.com/haoyun/skill-trail/internal/apperrors"
)

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	// 维护模式检查
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停创建房间"))
		return
	}

	payload, err := codec.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if strings.TrimSpace(payload.PlayerName) == "" {
		h.sendJoinError(client, apperrors.ErrNameRequired)
		return
	}

	mode, ok := room.ParseMode(payload.Mode)
	if !ok {
		h.sendJoinError(client, apperrors.ErrInvalidMode)
		return
	}

	client.SetName(strings.TrimSpace(payload.PlayerName))
	if payload.Avatar != "" {
		client.SetAvatar(payload.Avatar)
	}

	// 如果已在房间中，先离开
	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client)
	}

	r, err := h.roomManager.CreateRoom(client, payload.RoomName, mode)
	if err != nil {
		h.sendJoinError(client, err)
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, h.buildRoomJoined(r, client)))
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	// 维护模式检查
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停加入房间"))
		return
	}

	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if strings.TrimSpace(payload.PlayerName) == "" {
		h.sendJoinError(client, apperrors.ErrNameRequired)
		return
	}

	client.SetName(strings.TrimSpace(payload.PlayerName))
	if payload.Avatar != "" {
		client.SetAvatar(payload.Avatar)
	}

	// 如果已在房间中，先离开
	if client.GetRoom() != "" {
		h.roomManager.LeaveRoom(client)
	}

	r, err := h.roomManager.JoinRoom(client, payload.RoomCode)
	if err != nil {
		h.sendJoinError(client, err)
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, h.buildRoomJoined(r, client)))
}

// handleLeaveRoom 处理离开房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	h.roomManager.LeaveRoom(client)
}

// handleGetRoomList 获取公开房间列表
func (h *Handler) handleGetRoomList(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomListUpdate, protocol.RoomListUpdatePayload{
		Rooms: h.roomManager.GetRoomList(),
	}))
}

// sendJoinError 把房间操作错误转换为 join_error 回复
func (h *Handler) sendJoinError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewJoinError(gameErr.Code))
		return
	}
	client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// buildRoomJoined 构建 room_joined 响应，含完整花名册与聊天回放
func (h *Handler) buildRoomJoined(r *room.Room, client types.ClientInterface) protocol.RoomJoinedPayload {
	players, teams := r.RosterInfo()

	var you protocol.PlayerInfo
	for _, p := range players {
		if p.PlayerID == client.GetID() {
			you = p
			break
		}
	}

	return protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		RoomName: r.Name,
		Mode:     string(r.Mode),
		State:    r.GetState().String(),
		LeaderID: r.Leader(),
		You:      you,
		Players:  players,
		Teams:    teams,
		Chat:     r.ChatHistory(),
	}
}
