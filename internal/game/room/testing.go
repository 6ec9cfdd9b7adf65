//go:build !production

package room

import (
	"time"

	"github.com/haoyun/skill-trail/internal/types"
)

// NewMockRoom 创建测试用的 Room
func NewMockRoom(code string, mode GameMode, clients ...types.ClientInterface) *Room {
	room := &Room{
		Code:        code,
		Name:        "测试房间",
		Mode:        mode,
		State:       RoomStateWaiting,
		Public:      true,
		Players:     make(map[string]*RoomPlayer),
		PlayerOrder: make([]string, 0, len(clients)),
		Teams:       make(map[string]*Team),
		CreatedAt:   time.Now(),
	}
	for i, client := range clients {
		room.Players[client.GetID()] = &RoomPlayer{Client: client}
		room.PlayerOrder = append(room.PlayerOrder, client.GetID())
		if i == 0 {
			room.LeaderID = client.GetID()
		}
		if mode == ModeTeam {
			_, _ = room.assignTeam(client.GetID())
		}
	}
	return room
}

// AddRoomForTest 添加房间用于测试
func (rm *RoomManager) AddRoomForTest(room *Room) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.rooms[room.Code] = room
}
