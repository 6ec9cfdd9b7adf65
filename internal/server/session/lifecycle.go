package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/haoyun/skill-trail/internal/game/room"
	"github.com/haoyun/skill-trail/internal/game/score"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
)

// Start 校验开局条件、快照花名册并进入第一回合
func (gs *GameSession) Start(initiatorID string) error {
	if err := gs.room.BeginGame(initiatorID, gs.cfg.MinTeamPlayers); err != nil {
		return err
	}

	gs.mu.Lock()

	seats, teamSeats := gs.room.GameSeats()

	gs.mode = gs.room.Mode
	gs.participants = make(map[string]*Participant, len(seats))
	gs.order = make([]string, 0, len(seats))
	gs.skillUsage = make(map[string]map[string]int, len(seats))
	for _, seat := range seats {
		gs.participants[seat.ID] = &Participant{
			ID:     seat.ID,
			Name:   seat.Name,
			Avatar: seat.Avatar,
			TeamID: seat.TeamID,
		}
		gs.order = append(gs.order, seat.ID)
		gs.skillUsage[seat.ID] = make(map[string]int)
	}

	gs.teams = make(map[string]*TeamUnit, len(teamSeats))
	gs.teamOrder = make([]string, 0, len(teamSeats))
	gs.teamOf = make(map[string]string, len(seats))
	for _, ts := range teamSeats {
		gs.teams[ts.ID] = &TeamUnit{ID: ts.ID, Name: ts.Name, Members: ts.Members}
		gs.teamOrder = append(gs.teamOrder, ts.ID)
		for _, id := range ts.Members {
			gs.teamOf[id] = ts.ID
		}
	}

	gs.situationOrder = gs.rules.ShuffledSituationIDs()
	gs.maxRounds = gs.cfg.Rounds
	gs.round = 0
	gs.state = GameStateRunning

	gs.room.Broadcast(codec.MustNewMessage(protocol.MsgGameStarted, protocol.GameStartedPayload{
		Mode:      string(gs.mode),
		MaxRounds: gs.maxRounds,
		Players:   gs.playersInfo(),
		Teams:     gs.teamsInfo(),
	}))

	log.Printf("🚀 房间 %s 开始比赛，模式 %s，共 %d 轮", gs.room.Code, gs.mode, gs.maxRounds)

	gs.startNextRoundLocked()
	gs.mu.Unlock()
	return nil
}

// startNextRoundLocked 进入下一回合；轮数用尽或情境耗尽则结算终局。
// 调用方需持有 gs.mu。
func (gs *GameSession) startNextRoundLocked() {
	if gs.state != GameStateRunning {
		return
	}

	gs.round++
	if gs.round > gs.maxRounds || gs.round > len(gs.situationOrder) {
		gs.finalizeLocked()
		return
	}

	sitID := gs.situationOrder[gs.round-1]
	situation, ok := gs.rules.SituationByID(sitID)
	if !ok {
		// 规则数据不一致，提前收场
		log.Printf("⚠️ 房间 %s 第 %d 轮情境 %s 不存在，提前结算", gs.room.Code, gs.round, sitID)
		gs.finalizeLocked()
		return
	}

	gs.choices = make(map[string]string, len(gs.order))
	gs.resolved = false

	deadline := time.Now().Add(gs.cfg.RoundDuration())

	gs.room.Broadcast(codec.MustNewMessage(protocol.MsgNewRound, protocol.NewRoundPayload{
		Round:         gs.round,
		SituationID:   situation.ID,
		SituationText: situation.Text,
		Skills:        gs.skillInfos(),
		Deadline:      deadline.UnixMilli(),
		Players:       gs.playersInfo(),
		Teams:         gs.teamsInfo(),
	}))

	gs.startRoundTimer(gs.round)
}

// finalizeLocked 终局结算：最终得分 = 累计得分 + 赛道位置 × 每格加分，
// 并列最高分全部获胜。调用方需持有 gs.mu。
func (gs *GameSession) finalizeLocked() {
	if gs.state == GameStateEnded {
		return
	}
	gs.state = GameStateEnded
	gs.stopRoundTimer()

	bonus := gs.cfg.TrailBonus

	finals := make(map[string]int)
	entries := make(map[string]protocol.FinalScoreEntry)
	usage := make(map[string]map[string]int)

	if gs.mode == room.ModeTeam {
		// 只结算仍有成员在场的队伍
		for _, tid := range gs.teamOrder {
			t := gs.teams[tid]
			active := 0
			teamUsage := make(map[string]int)
			for _, id := range t.Members {
				p := gs.participants[id]
				if !p.Left {
					active++
				}
				for skill, n := range gs.skillUsage[id] {
					teamUsage[skill] += n
				}
			}
			if active == 0 {
				continue
			}
			final := score.FinalScore(t.Score, t.Trail, bonus)
			finals[tid] = final
			entries[tid] = protocol.FinalScoreEntry{
				ID:            tid,
				Name:          t.Name,
				Score:         t.Score,
				TrailPosition: t.Trail,
				FinalScore:    final,
			}
			usage[tid] = teamUsage
		}
	} else {
		for _, id := range gs.order {
			p := gs.participants[id]
			if p.Left {
				continue
			}
			final := score.FinalScore(p.Score, p.Trail, bonus)
			finals[id] = final
			entries[id] = protocol.FinalScoreEntry{
				ID:            id,
				Name:          p.Name,
				Score:         p.Score,
				TrailPosition: p.Trail,
				FinalScore:    final,
			}
			usage[id] = gs.skillUsage[id]
		}
	}

	winners := score.Winners(finals)

	names := make([]string, 0, len(winners))
	for _, id := range winners {
		names = append(names, entries[id].Name)
	}
	var message string
	switch {
	case len(winners) == 0:
		message = "比赛结束"
	case len(winners) == 1:
		message = fmt.Sprintf("%s 获胜！", names[0])
	default:
		message = fmt.Sprintf("平局！%s 不分胜负", strings.Join(names, "、"))
	}

	gs.room.Broadcast(codec.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		Message:     message,
		FinalScores: entries,
		Winners:     winners,
		SkillUsage:  usage,
		SkillNames:  gs.rules.SkillNames(),
	}))

	gs.room.FinishGame()

	log.Printf("🎮 房间 %s 比赛结束：%s", gs.room.Code, message)

	gs.recordResults(winners)

	if gs.onEnd != nil {
		gs.onEnd()
	}
}

// recordResults 把每个参与者的战绩异步写入排行榜。调用方需持有 gs.mu。
func (gs *GameSession) recordResults(winners []string) {
	winnerSet := make(map[string]bool, len(winners))
	for _, id := range winners {
		winnerSet[id] = true
	}

	bonus := gs.cfg.TrailBonus
	for _, id := range gs.order {
		p := gs.participants[id]
		if p.Left {
			continue
		}

		var final, trail int
		var won bool
		if gs.mode == room.ModeTeam {
			t, ok := gs.teams[p.TeamID]
			if !ok {
				continue
			}
			final = score.FinalScore(t.Score, t.Trail, bonus)
			trail = t.Trail
			won = winnerSet[p.TeamID]
		} else {
			final = score.FinalScore(p.Score, p.Trail, bonus)
			trail = p.Trail
			won = winnerSet[id]
		}

		go func(id, name string, final, trail int, won bool) {
			if err := gs.leaderboard.RecordGameResult(context.Background(), id, name, final, trail, won); err != nil {
				log.Printf("⚠️ 记录玩家 %s 战绩失败: %v", name, err)
			}
		}(id, p.Name, final, trail, won)
	}
}
