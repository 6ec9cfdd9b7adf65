package room

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haoyun/skill-trail/internal/apperrors"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/testutil"
	"github.com/haoyun/skill-trail/internal/types"
)

func TestRoom_BeginGame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mode        GameMode
		players     int
		initiator   string
		preState    RoomState
		expectedErr error
	}{
		{"组队模式正常开局", ModeTeam, 3, "p1", RoomStateWaiting, nil},
		{"1v1 恰好两人开局", ModeSoloDuel, 2, "p1", RoomStateWaiting, nil},
		{"游戏已开始", ModeTeam, 3, "p1", RoomStateActive, apperrors.ErrGameStarted},
		{"非房主发起", ModeTeam, 3, "p2", RoomStateWaiting, apperrors.ErrNotLeader},
		{"1v1 人数不足", ModeSoloDuel, 1, "p1", RoomStateWaiting, apperrors.ErrWrongHeadcount},
		{"组队人数不足", ModeTeam, 1, "p1", RoomStateWaiting, apperrors.ErrInsufficientPlayers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clients := make([]types.ClientInterface, tt.players)
			for i := range clients {
				clients[i] = testutil.NewSimpleClient(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Player%d", i+1))
			}
			room := NewMockRoom("123456", tt.mode, clients...)
			room.State = tt.preState

			err := room.BeginGame(tt.initiator, 2)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, RoomStateActive, room.GetState())
			assert.False(t, room.Public)
		})
	}
}

func TestRoom_FinishGame(t *testing.T) {
	t.Parallel()

	room := NewMockRoom("123456", ModeSoloDuel,
		testutil.NewSimpleClient("p1", "Alice"),
		testutil.NewSimpleClient("p2", "Bob"))
	require.NoError(t, room.BeginGame("p1", 2))

	room.FinishGame()

	assert.Equal(t, RoomStateFinished, room.GetState())
	assert.True(t, room.Public)
}

func TestRoom_AppendChat_Bounded(t *testing.T) {
	t.Parallel()

	room := NewMockRoom("123456", ModeTeam, testutil.NewSimpleClient("p1", "Alice"))

	for i := range 105 {
		room.AppendChat(protocol.ChatPayload{
			SenderID: "p1",
			Content:  fmt.Sprintf("msg-%d", i),
		})
	}

	history := room.ChatHistory()
	require.Len(t, history, 100)
	// 最旧的 5 条已被淘汰
	assert.Equal(t, "msg-5", history[0].Content)
	assert.Equal(t, "msg-104", history[99].Content)
}

func TestRoom_GameSeats(t *testing.T) {
	t.Parallel()

	a := testutil.NewSimpleClient("p1", "Alice")
	b := testutil.NewSimpleClient("p2", "Bob")
	room := NewMockRoom("123456", ModeTeam, a, b)

	players, teams := room.GameSeats()
	require.Len(t, players, 2)
	assert.Equal(t, "p1", players[0].ID)
	assert.Equal(t, "team1", players[0].TeamID)
	require.Len(t, teams, 1)
	assert.Equal(t, []string{"p1", "p2"}, teams[0].Members)

	// 快照独立于房间后续变化
	room.mu.Lock()
	room.removePlayer("p2")
	room.mu.Unlock()
	assert.Len(t, players, 2)
	assert.Equal(t, []string{"p1", "p2"}, teams[0].Members)
}

func TestRoom_GameSeats_SoloDuel(t *testing.T) {
	t.Parallel()

	room := NewMockRoom("123456", ModeSoloDuel,
		testutil.NewSimpleClient("p1", "Alice"),
		testutil.NewSimpleClient("p2", "Bob"))

	players, teams := room.GameSeats()
	assert.Len(t, players, 2)
	assert.Nil(t, teams)
	assert.Empty(t, players[0].TeamID)
}
