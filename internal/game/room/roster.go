package room

import (
	"fmt"
	"log"

	"github.com/haoyun/skill-trail/internal/apperrors"
	"github.com/haoyun/skill-trail/internal/protocol"
)

// assignTeam 把玩家分到人数最少的未满队伍；都满员时按序号开新队。
// 调用方需持有 r.mu。
func (r *Room) assignTeam(playerID string) (string, error) {
	// 先找已有队伍中人数最少的未满队伍，序号小者优先
	var smallest *Team
	minMembers := MaxTeamSize + 1
	for i := 1; i <= MaxTeams; i++ {
		teamID := fmt.Sprintf("team%d", i)
		team, ok := r.Teams[teamID]
		if !ok {
			continue
		}
		if len(team.Members) < MaxTeamSize && len(team.Members) < minMembers {
			minMembers = len(team.Members)
			smallest = team
		}
	}

	if smallest == nil {
		// 没有可用队伍，按序号开新队
		for i := 1; i <= MaxTeams; i++ {
			teamID := fmt.Sprintf("team%d", i)
			if _, ok := r.Teams[teamID]; !ok {
				smallest = &Team{
					ID:   teamID,
					Name: fmt.Sprintf("%d 队", i),
				}
				r.Teams[teamID] = smallest
				log.Printf("🚩 房间 %s 创建新队伍 %s", r.Code, teamID)
				break
			}
		}
	}

	if smallest == nil {
		return "", apperrors.ErrTeamsFull
	}

	smallest.Members = append(smallest.Members, playerID)
	r.Players[playerID].TeamID = smallest.ID
	return smallest.ID, nil
}

// removePlayer 从玩家表、顺序表和所在队伍中移除玩家。
// 清空的队伍保留不删。调用方需持有 r.mu。
func (r *Room) removePlayer(playerID string) {
	player, exists := r.Players[playerID]
	if !exists {
		return
	}

	if player.TeamID != "" {
		if team, ok := r.Teams[player.TeamID]; ok {
			for i, id := range team.Members {
				if id == playerID {
					team.Members = append(team.Members[:i], team.Members[i+1:]...)
					break
				}
			}
		}
	}

	delete(r.Players, playerID)
	for i, id := range r.PlayerOrder {
		if id == playerID {
			r.PlayerOrder = append(r.PlayerOrder[:i], r.PlayerOrder[i+1:]...)
			break
		}
	}
}

// AppendChat 追加聊天记录，超出上限淘汰最旧的一条
func (r *Room) AppendChat(msg protocol.ChatPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Chat = append(r.Chat, msg)
	if len(r.Chat) > chatLogCap {
		r.Chat = r.Chat[1:]
	}
}

// ChatHistory 返回聊天记录副本（新玩家加入时回放）
func (r *Room) ChatHistory() []protocol.ChatPayload {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := make([]protocol.ChatPayload, len(r.Chat))
	copy(history, r.Chat)
	return history
}
