package room

import (
	"fmt"
	"log"
	"time"

	"github.com/haoyun/skill-trail/internal/apperrors"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
	"github.com/haoyun/skill-trail/internal/types"
)

// CreateRoom 创建房间，创建者即房主
func (rm *RoomManager) CreateRoom(client types.ClientInterface, roomName string, mode GameMode) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	// 生成唯一房间号
	code := rm.generateRoomCode()

	if roomName == "" {
		roomName = fmt.Sprintf("%s 的房间", client.GetName())
	}

	room := &Room{
		Code:        code,
		Name:        roomName,
		Mode:        mode,
		State:       RoomStateWaiting,
		Public:      true,
		LeaderID:    client.GetID(),
		Players:     make(map[string]*RoomPlayer),
		PlayerOrder: make([]string, 0, 4),
		Teams:       make(map[string]*Team),
		CreatedAt:   time.Now(),
	}

	// 添加创建者
	player := &RoomPlayer{Client: client}
	room.Players[client.GetID()] = player
	room.PlayerOrder = append(room.PlayerOrder, client.GetID())
	client.SetRoom(code)

	// 组队模式创建时就分队
	if mode == ModeTeam {
		if _, err := room.assignTeam(client.GetID()); err != nil {
			return nil, err
		}
	}

	rm.rooms[code] = room

	// 保存到 Redis
	rm.saveRoomAsync(room)

	log.Printf("🏠 房间 %s (%s) 已创建，模式 %s，房主 %s", code, roomName, mode, client.GetName())

	rm.broadcastRoomListLocked()

	return room, nil
}

// JoinRoom 加入房间
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[code]
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()

	if room.State != RoomStateWaiting {
		room.mu.Unlock()
		return nil, apperrors.ErrGameStarted
	}

	if room.Mode == ModeSoloDuel && len(room.Players) >= DuelPlayers {
		room.mu.Unlock()
		return nil, apperrors.ErrRoomFull
	}

	player := &RoomPlayer{Client: client}
	room.Players[client.GetID()] = player
	room.PlayerOrder = append(room.PlayerOrder, client.GetID())

	// 组队模式分队，所有队伍满员则回滚加入
	if room.Mode == ModeTeam {
		if _, err := room.assignTeam(client.GetID()); err != nil {
			delete(room.Players, client.GetID())
			room.PlayerOrder = room.PlayerOrder[:len(room.PlayerOrder)-1]
			room.mu.Unlock()
			return nil, err
		}
	}
	client.SetRoom(code)

	log.Printf("👤 玩家 %s 加入房间 %s", client.GetName(), code)

	// 通知房间内其他玩家
	room.broadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player:  room.GetPlayerInfo(client.GetID()),
		Players: room.GetAllPlayersInfo(),
		Teams:   room.GetAllTeamsInfo(),
	}))
	room.mu.Unlock()

	// 保存到 Redis
	rm.saveRoomAsync(room)

	rm.broadcastRoomListLocked()

	return room, nil
}

// LeaveRoom 离开房间（断线与主动退出共用，可重复调用）
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return
	}

	rm.mu.Lock()
	room, exists := rm.rooms[roomCode]
	if !exists {
		rm.mu.Unlock()
		client.SetRoom("")
		return
	}
	rm.mu.Unlock()

	room.mu.Lock()

	if _, exists := room.Players[client.GetID()]; !exists {
		room.mu.Unlock()
		client.SetRoom("")
		return
	}

	room.removePlayer(client.GetID())
	client.SetRoom("")

	log.Printf("👋 玩家 %s 离开房间 %s", client.GetName(), roomCode)

	empty := len(room.Players) == 0
	if empty {
		room.mu.Unlock()
		rm.mu.Lock()
		delete(rm.rooms, roomCode)
		rm.mu.Unlock()
		// 从 Redis 删除
		rm.deleteRoomAsync(roomCode)
		log.Printf("🏠 房间 %s 已解散", roomCode)
	} else {
		// 通知其他玩家
		room.broadcast(codec.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
			PlayerID:   client.GetID(),
			PlayerName: client.GetName(),
			Players:    room.GetAllPlayersInfo(),
			Teams:      room.GetAllTeamsInfo(),
		}))

		// 房主离开时，按加入顺序最早的玩家接任
		if room.LeaderID == client.GetID() {
			room.LeaderID = room.PlayerOrder[0]
			leader := room.Players[room.LeaderID]
			log.Printf("👑 %s 成为房间 %s 的新房主", leader.Client.GetName(), roomCode)
			room.broadcast(codec.MustNewMessage(protocol.MsgNewLeader, protocol.NewLeaderPayload{
				LeaderID:   room.LeaderID,
				LeaderName: leader.Client.GetName(),
			}))
		}
		room.mu.Unlock()

		// 更新 Redis
		rm.saveRoomAsync(room)
	}

	rm.BroadcastRoomList()

	// 游戏进行中离开的玩家要从会话中摘除
	if rm.onPlayerLeft != nil {
		rm.onPlayerLeft(roomCode, client.GetID(), empty)
	}
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// GetRoomList 获取公开房间列表
func (rm *RoomManager) GetRoomList() []protocol.RoomListItem {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.roomListLocked()
}

// roomListLocked 构建公开房间列表，调用方需持有 rm.mu
func (rm *RoomManager) roomListLocked() []protocol.RoomListItem {
	rooms := make([]protocol.RoomListItem, 0, len(rm.rooms))
	for code, room := range rm.rooms {
		room.mu.RLock()
		if room.Public {
			rooms = append(rooms, protocol.RoomListItem{
				RoomCode:    code,
				Name:        room.Name,
				PlayerCount: len(room.Players),
				State:       room.State.String(),
				Mode:        string(room.Mode),
			})
		}
		room.mu.RUnlock()
	}
	return rooms
}

// BroadcastRoomList 向大厅玩家推送公开房间列表
func (rm *RoomManager) BroadcastRoomList() {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	rm.broadcastRoomListLocked()
}

func (rm *RoomManager) broadcastRoomListLocked() {
	if rm.server == nil {
		return
	}
	rm.server.BroadcastToLobby(codec.MustNewMessage(protocol.MsgRoomListUpdate, protocol.RoomListUpdatePayload{
		Rooms: rm.roomListLocked(),
	}))
}

// GetRoomByPlayerID 通过玩家 ID 获取房间
func (rm *RoomManager) GetRoomByPlayerID(playerID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	for _, room := range rm.rooms {
		room.mu.RLock()
		_, exists := room.Players[playerID]
		room.mu.RUnlock()
		if exists {
			return room
		}
	}
	return nil
}

// GetActiveGamesCount 获取进行中的游戏数量
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, room := range rm.rooms {
		room.mu.RLock()
		if room.State == RoomStateActive {
			count++
		}
		room.mu.RUnlock()
	}
	return count
}
