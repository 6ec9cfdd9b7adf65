package room

import (
	"fmt"

	"github.com/haoyun/skill-trail/internal/protocol"
)

// Broadcast 广播消息给房间内所有玩家
func (r *Room) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.broadcast(msg)
}

// BroadcastExcept 广播消息给除指定玩家外的所有玩家
func (r *Room) BroadcastExcept(excludeID string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.broadcastExcept(excludeID, msg)
}

// SendTo 发送消息给房间内的指定玩家
func (r *Room) SendTo(playerID string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.sendTo(playerID, msg)
}

// 以下小写版本不加锁，供已持有 r.mu 的调用方使用

func (r *Room) broadcast(msg *protocol.Message) {
	for _, player := range r.Players {
		player.Client.SendMessage(msg)
	}
}

func (r *Room) broadcastExcept(excludeID string, msg *protocol.Message) {
	for id, player := range r.Players {
		if id != excludeID {
			player.Client.SendMessage(msg)
		}
	}
}

func (r *Room) sendTo(playerID string, msg *protocol.Message) {
	if player, ok := r.Players[playerID]; ok {
		player.Client.SendMessage(msg)
	}
}

// GetPlayerInfo 获取玩家信息
func (r *Room) GetPlayerInfo(playerID string) protocol.PlayerInfo {
	player := r.Players[playerID]
	return protocol.PlayerInfo{
		PlayerID: playerID,
		Name:     player.Client.GetName(),
		Avatar:   player.Client.GetAvatar(),
		TeamID:   player.TeamID,
		IsLeader: playerID == r.LeaderID,
	}
}

// GetAllPlayersInfo 获取所有玩家信息（按加入顺序）
func (r *Room) GetAllPlayersInfo() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(r.Players))
	for _, id := range r.PlayerOrder {
		infos = append(infos, r.GetPlayerInfo(id))
	}
	return infos
}

// GetAllTeamsInfo 获取所有队伍信息（按序号），1v1 模式返回 nil
func (r *Room) GetAllTeamsInfo() []protocol.TeamInfo {
	if r.Mode != ModeTeam {
		return nil
	}

	infos := make([]protocol.TeamInfo, 0, len(r.Teams))
	for i := 1; i <= MaxTeams; i++ {
		team, ok := r.Teams[fmt.Sprintf("team%d", i)]
		if !ok {
			continue
		}
		members := make([]protocol.TeamMember, 0, len(team.Members))
		for _, id := range team.Members {
			if p, ok := r.Players[id]; ok {
				members = append(members, protocol.TeamMember{
					PlayerID: id,
					Name:     p.Client.GetName(),
				})
			}
		}
		infos = append(infos, protocol.TeamInfo{
			TeamID:  team.ID,
			Name:    team.Name,
			Members: members,
		})
	}
	return infos
}

// RosterInfo 加锁获取当前玩家与队伍信息（房间锁外的调用方使用）
func (r *Room) RosterInfo() ([]protocol.PlayerInfo, []protocol.TeamInfo) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.GetAllPlayersInfo(), r.GetAllTeamsInfo()
}

// PlayerSeat 开局时的玩家快照
type PlayerSeat struct {
	ID     string
	Name   string
	Avatar string
	TeamID string
}

// TeamSeat 开局时的队伍快照
type TeamSeat struct {
	ID      string
	Name    string
	Members []string
}

// GameSeats 返回开局时的玩家与队伍快照（游戏会话据此初始化自身状态）
func (r *Room) GameSeats() ([]PlayerSeat, []TeamSeat) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]PlayerSeat, 0, len(r.Players))
	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		players = append(players, PlayerSeat{
			ID:     id,
			Name:   p.Client.GetName(),
			Avatar: p.Client.GetAvatar(),
			TeamID: p.TeamID,
		})
	}

	var teams []TeamSeat
	if r.Mode == ModeTeam {
		for i := 1; i <= MaxTeams; i++ {
			team, ok := r.Teams[fmt.Sprintf("team%d", i)]
			if !ok {
				continue
			}
			members := make([]string, len(team.Members))
			copy(members, team.Members)
			teams = append(teams, TeamSeat{ID: team.ID, Name: team.Name, Members: members})
		}
	}

	return players, teams
}
