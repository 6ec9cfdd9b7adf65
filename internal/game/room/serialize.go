package room

import (
	"github.com/haoyun/skill-trail/internal/server/storage"
)

// ToRoomData 将 Room 转换为可序列化的 RoomData
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := &storage.RoomData{
		Code:        r.Code,
		Name:        r.Name,
		Mode:        string(r.Mode),
		State:       int(r.State),
		Public:      r.Public,
		LeaderID:    r.LeaderID,
		Players:     make([]storage.PlayerData, 0, len(r.Players)),
		PlayerOrder: r.PlayerOrder,
		CreatedAt:   r.CreatedAt.Unix(),
	}

	for _, id := range r.PlayerOrder {
		player := r.Players[id]
		data.Players = append(data.Players, storage.PlayerData{
			ID:     id,
			Name:   player.Client.GetName(),
			TeamID: player.TeamID,
		})
	}

	for _, team := range r.Teams {
		data.Teams = append(data.Teams, storage.TeamData{
			ID:      team.ID,
			Name:    team.Name,
			Members: team.Members,
		})
	}

	return data
}
