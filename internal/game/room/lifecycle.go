package room

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/haoyun/skill-trail/internal/apperrors"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
)

// BeginGame 校验开局条件并把房间置为游戏中。
// 游戏中的房间从公开列表隐藏，结束后恢复。
func (r *Room) BeginGame(initiatorID string, minTeamPlayers int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != RoomStateWaiting {
		return apperrors.ErrGameStarted
	}
	if r.LeaderID != initiatorID {
		return apperrors.ErrNotLeader
	}

	count := len(r.Players)
	if r.Mode == ModeSoloDuel {
		if count != DuelPlayers {
			return apperrors.ErrWrongHeadcount
		}
	} else if count < minTeamPlayers {
		return apperrors.ErrInsufficientPlayers
	}

	r.State = RoomStateActive
	r.Public = false
	return nil
}

// FinishGame 游戏结束，房间重新公开（供结果查看和再次开局浏览）
func (r *Room) FinishGame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.State = RoomStateFinished
	r.Public = true
}

// GetState 获取房间状态
func (r *Room) GetState() RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.State
}

// Leader 获取当前房主 ID
func (r *Room) Leader() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.LeaderID
}

// PlayerCount 获取当前玩家数
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Players)
}

// HasPlayer 判断玩家是否在房间内
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.Players[playerID]
	return ok
}

// generateRoomCode 生成房间号
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期清理超时房间
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rm.cleanup()
	}
}

// cleanup 清理超时房间
func (rm *RoomManager) cleanup() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	now := time.Now()
	removed := false

	for code, room := range rm.rooms {
		room.mu.RLock()
		// 只清理等待状态且超时的房间
		if room.State == RoomStateWaiting && now.Sub(room.CreatedAt) > rm.roomTimeout {
			room.mu.RUnlock()
			// 通知所有玩家房间已关闭
			room.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间超时已关闭"))
			// 清理玩家状态
			for _, p := range room.Players {
				p.Client.SetRoom("")
			}
			delete(rm.rooms, code)
			removed = true
			log.Printf("🏠 房间 %s 超时已清理", code)
		} else {
			room.mu.RUnlock()
		}
	}

	if removed {
		rm.broadcastRoomListLocked()
	}
}
