package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haoyun/skill-trail/internal/apperrors"
	"github.com/haoyun/skill-trail/internal/config"
	"github.com/haoyun/skill-trail/internal/game/room"
	"github.com/haoyun/skill-trail/internal/game/rules"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
	"github.com/haoyun/skill-trail/internal/server/storage"
	"github.com/haoyun/skill-trail/internal/testutil"
)

// 两个情境计分行相同，洗乱后的出题顺序不影响断言
const testRulesYAML = `
skills:
  - id: shield
    name: 盾牌
  - id: charge
    name: 冲锋
situations:
  - id: ambush
    text: 遭遇伏击
  - id: river
    text: 渡河受阻
scoring:
  ambush:
    shield: 5
    charge: 3
  river:
    shield: 5
    charge: 3
`

func newTestRules(t *testing.T) *rules.Rules {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRulesYAML), 0o644))
	r, err := rules.Load(path)
	require.NoError(t, err)
	return r
}

func testGameConfig(roundsTotal int) *config.GameConfig {
	return &config.GameConfig{
		RoundSeconds:    5, // 足够长，选择驱动的测试不会被倒计时抢跑
		Rounds:          roundsTotal,
		TrailBonus:      10,
		InterRoundPause: 0,
		MinTeamPlayers:  2,
	}
}

func newDuelSession(t *testing.T, roundsTotal int) (*GameSession, *testutil.SimpleClient, *testutil.SimpleClient) {
	t.Helper()
	a := testutil.NewSimpleClient("p1", "Alice")
	b := testutil.NewSimpleClient("p2", "Bob")
	r := room.NewMockRoom("123456", room.ModeSoloDuel, a, b)
	gs := NewGameSession(r, newTestRules(t), testGameConfig(roundsTotal), storage.NewLeaderboardManager(nil), nil)
	return gs, a, b
}

func mustPayload[T any](t *testing.T, msg *protocol.Message) *T {
	t.Helper()
	p, err := codec.ParsePayload[T](msg)
	require.NoError(t, err)
	return p
}

func TestGameSession_Start(t *testing.T) {
	t.Parallel()

	gs, a, b := newDuelSession(t, 2)
	require.NoError(t, gs.Start("p1"))

	assert.Equal(t, GameStateRunning, gs.State())
	assert.Equal(t, 1, gs.Round())
	assert.Equal(t, room.RoomStateActive, gs.room.GetState())

	for _, c := range []*testutil.SimpleClient{a, b} {
		require.Len(t, c.MessagesOfType(protocol.MsgGameStarted), 1)
		rounds := c.MessagesOfType(protocol.MsgNewRound)
		require.Len(t, rounds, 1)

		payload := mustPayload[protocol.NewRoundPayload](t, rounds[0])
		assert.Equal(t, 1, payload.Round)
		assert.NotEmpty(t, payload.SituationText)
		assert.Len(t, payload.Skills, 2)
		assert.Greater(t, payload.Deadline, time.Now().UnixMilli())
	}
}

func TestGameSession_Start_Errors(t *testing.T) {
	t.Parallel()

	t.Run("非房主", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newDuelSession(t, 2)
		assert.ErrorIs(t, gs.Start("p2"), apperrors.ErrNotLeader)
	})

	t.Run("1v1 人数不符", func(t *testing.T) {
		t.Parallel()
		a := testutil.NewSimpleClient("p1", "Alice")
		r := room.NewMockRoom("123456", room.ModeSoloDuel, a)
		gs := NewGameSession(r, newTestRules(t), testGameConfig(2), storage.NewLeaderboardManager(nil), nil)
		assert.ErrorIs(t, gs.Start("p1"), apperrors.ErrWrongHeadcount)
	})

	t.Run("重复开始", func(t *testing.T) {
		t.Parallel()
		gs, _, _ := newDuelSession(t, 2)
		require.NoError(t, gs.Start("p1"))
		assert.ErrorIs(t, gs.Start("p1"), apperrors.ErrGameStarted)
	})
}

// 全员选完立即结算，不等倒计时；1v1 结算后公开双方选择
func TestGameSession_Duel_AllChosenResolvesEarly(t *testing.T) {
	t.Parallel()

	gs, a, b := newDuelSession(t, 2)
	require.NoError(t, gs.Start("p1"))

	gs.RecordChoice("p1", "shield")

	// 只选了一个人，不结算
	assert.Empty(t, a.MessagesOfType(protocol.MsgRoundEnd))
	require.Len(t, a.MessagesOfType(protocol.MsgChoiceRegistered), 1)
	require.Len(t, b.MessagesOfType(protocol.MsgPlayerChoiceUpdate), 1)

	gs.RecordChoice("p2", "charge")

	ends := a.MessagesOfType(protocol.MsgRoundEnd)
	require.Len(t, ends, 1)
	payload := mustPayload[protocol.RoundEndPayload](t, ends[0])
	assert.Equal(t, 1, payload.Round)

	p1 := payload.Results["p1"]
	assert.Equal(t, "shield", p1.Choice)
	assert.Equal(t, 5, p1.Score)
	assert.Equal(t, 5, p1.TotalScore)
	assert.True(t, p1.AdvancedTrail)

	p2 := payload.Results["p2"]
	assert.Equal(t, "charge", p2.Choice)
	assert.Equal(t, 3, p2.Score)
	assert.False(t, p2.AdvancedTrail)

	// 停顿为 0，自动进入第二轮
	require.Eventually(t, func() bool { return gs.Round() == 2 }, time.Second, 10*time.Millisecond)
}

func TestGameSession_Duel_FullGame(t *testing.T) {
	t.Parallel()

	gs, a, _ := newDuelSession(t, 2)
	require.NoError(t, gs.Start("p1"))

	for range 2 {
		round := gs.Round()
		gs.RecordChoice("p1", "shield")
		gs.RecordChoice("p2", "charge")
		require.Eventually(t, func() bool {
			return gs.State() == GameStateEnded || gs.Round() > round
		}, time.Second, 10*time.Millisecond)
	}

	require.Equal(t, GameStateEnded, gs.State())
	assert.Equal(t, room.RoomStateFinished, gs.room.GetState())

	overs := a.MessagesOfType(protocol.MsgGameOver)
	require.Len(t, overs, 1)
	payload := mustPayload[protocol.GameOverPayload](t, overs[0])

	// p1：累计 10 分 + 2 格 × 10；p2：累计 6 分 + 0 格
	assert.Equal(t, 30, payload.FinalScores["p1"].FinalScore)
	assert.Equal(t, 6, payload.FinalScores["p2"].FinalScore)
	assert.Equal(t, []string{"p1"}, payload.Winners)
	assert.Contains(t, payload.Message, "Alice")
	assert.Equal(t, 2, payload.SkillUsage["p1"]["shield"])
	assert.Equal(t, 2, payload.SkillUsage["p2"]["charge"])
	assert.Equal(t, "盾牌", payload.SkillNames["shield"])
}

// 并列最高分全部前进
func TestGameSession_Duel_TieBothAdvance(t *testing.T) {
	t.Parallel()

	gs, a, _ := newDuelSession(t, 2)
	require.NoError(t, gs.Start("p1"))

	gs.RecordChoice("p1", "shield")
	gs.RecordChoice("p2", "shield")

	ends := a.MessagesOfType(protocol.MsgRoundEnd)
	require.Len(t, ends, 1)
	payload := mustPayload[protocol.RoundEndPayload](t, ends[0])
	assert.True(t, payload.Results["p1"].AdvancedTrail)
	assert.True(t, payload.Results["p2"].AdvancedTrail)
}

func TestGameSession_RecordChoice_Ignored(t *testing.T) {
	t.Parallel()

	gs, a, b := newDuelSession(t, 2)
	require.NoError(t, gs.Start("p1"))

	gs.RecordChoice("p1", "fireball")  // 未知技能
	gs.RecordChoice("ghost", "shield") // 不在对局中
	assert.Empty(t, a.MessagesOfType(protocol.MsgChoiceRegistered))

	gs.RecordChoice("p1", "shield")
	gs.RecordChoice("p1", "charge") // 重复选择，保留第一次

	registered := a.MessagesOfType(protocol.MsgChoiceRegistered)
	require.Len(t, registered, 1)
	assert.Equal(t, "shield", mustPayload[protocol.ChoiceRegisteredPayload](t, registered[0]).SkillID)
	assert.Len(t, b.MessagesOfType(protocol.MsgPlayerChoiceUpdate), 1)
}

// 倒计时与"全员已选"竞争时，每回合只结算一次
func TestGameSession_ResolveRound_Idempotent(t *testing.T) {
	t.Parallel()

	gs, a, b := newDuelSession(t, 1)
	require.NoError(t, gs.Start("p1"))

	gs.RecordChoice("p1", "shield")

	// 模拟倒计时回调与并发触发同时到达
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			gs.resolveRound(1)
		})
	}
	wg.Wait()

	for _, c := range []*testutil.SimpleClient{a, b} {
		assert.Len(t, c.MessagesOfType(protocol.MsgRoundEnd), 1)
		assert.Len(t, c.MessagesOfType(protocol.MsgGameOver), 1)
	}
}

// 倒计时到点：没选的参与者计 0 分，全零回合无人前进
func TestGameSession_DeadlineResolvesWithZeroScores(t *testing.T) {
	t.Parallel()

	a := testutil.NewSimpleClient("p1", "Alice")
	b := testutil.NewSimpleClient("p2", "Bob")
	r := room.NewMockRoom("123456", room.ModeSoloDuel, a, b)
	cfg := testGameConfig(1)
	cfg.RoundSeconds = 1
	gs := NewGameSession(r, newTestRules(t), cfg, storage.NewLeaderboardManager(nil), nil)
	require.NoError(t, gs.Start("p1"))

	require.Eventually(t, func() bool {
		return len(a.MessagesOfType(protocol.MsgRoundEnd)) == 1
	}, 3*time.Second, 20*time.Millisecond)

	payload := mustPayload[protocol.RoundEndPayload](t, a.MessagesOfType(protocol.MsgRoundEnd)[0])
	for _, id := range []string{"p1", "p2"} {
		assert.Equal(t, 0, payload.Results[id].Score)
		assert.False(t, payload.Results[id].AdvancedTrail)
	}

	// 过期的倒计时回调不会重复结算
	gs.resolveRound(1)
	assert.Len(t, a.MessagesOfType(protocol.MsgRoundEnd), 1)
	assert.Len(t, b.MessagesOfType(protocol.MsgGameOver), 1)
}

func TestGameSession_PlayerLeft(t *testing.T) {
	t.Parallel()

	gs, a, _ := newDuelSession(t, 1)
	require.NoError(t, gs.Start("p1"))

	gs.RecordChoice("p1", "shield")
	gs.PlayerLeft("p2")

	// 剩下的人都已选，立即结算并终局
	require.Equal(t, GameStateEnded, gs.State())
	overs := a.MessagesOfType(protocol.MsgGameOver)
	require.Len(t, overs, 1)

	payload := mustPayload[protocol.GameOverPayload](t, overs[0])
	assert.Equal(t, []string{"p1"}, payload.Winners)
	_, hasLeaver := payload.FinalScores["p2"]
	assert.False(t, hasLeaver)
}

func TestGameSession_AllPlayersLeft(t *testing.T) {
	t.Parallel()

	ended := make(chan struct{})
	a := testutil.NewSimpleClient("p1", "Alice")
	b := testutil.NewSimpleClient("p2", "Bob")
	r := room.NewMockRoom("123456", room.ModeSoloDuel, a, b)
	gs := NewGameSession(r, newTestRules(t), testGameConfig(2), storage.NewLeaderboardManager(nil), func() { close(ended) })
	require.NoError(t, gs.Start("p1"))

	gs.PlayerLeft("p1")
	gs.PlayerLeft("p2")

	assert.Equal(t, GameStateEnded, gs.State())
	select {
	case <-ended:
	default:
		t.Fatal("onEnd 未被调用")
	}
	// 没人可通知，不广播终局消息
	assert.Empty(t, a.MessagesOfType(protocol.MsgGameOver))
}
