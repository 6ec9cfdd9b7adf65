package session

import (
	"log"

	"github.com/haoyun/skill-trail/internal/apperrors"
	"github.com/haoyun/skill-trail/internal/game/room"
	"github.com/haoyun/skill-trail/internal/game/score"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/protocol/codec"
)

// RecordChoice 记录参与者本回合的技能选择。
// 比赛未进行、技能不存在、重复选择都静默忽略。
// 在场参与者全部选完立即结算，不等倒计时。
func (gs *GameSession) RecordChoice(playerID, skillID string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != GameStateRunning {
		return
	}
	p, ok := gs.participants[playerID]
	if !ok || p.Left {
		return
	}
	if _, chosen := gs.choices[playerID]; chosen {
		return
	}
	if !gs.rules.HasSkill(skillID) {
		return
	}

	gs.choices[playerID] = skillID

	// 本人收到确认，其他人只知道他选了、不知道选了什么
	gs.room.SendTo(playerID, codec.MustNewMessage(protocol.MsgChoiceRegistered, protocol.ChoiceRegisteredPayload{
		Round:   gs.round,
		SkillID: skillID,
	}))
	gs.room.BroadcastExcept(playerID, codec.MustNewMessage(protocol.MsgPlayerChoiceUpdate, protocol.PlayerChoiceUpdatePayload{
		Round:    gs.round,
		PlayerID: playerID,
	}))

	if gs.allChosen() {
		gs.resolveRoundLocked(gs.round)
	}
}

// resolveRound 倒计时到点的结算入口
func (gs *GameSession) resolveRound(round int) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.resolveRoundLocked(round)
}

// resolveRoundLocked 结算指定回合。
// 回合号不匹配或已结算的调用直接返回，两个触发源只有一个生效。
// 调用方需持有 gs.mu。
func (gs *GameSession) resolveRoundLocked(round int) {
	if gs.state != GameStateRunning || round != gs.round || gs.resolved {
		return
	}
	gs.resolved = true
	gs.stopRoundTimer()

	sitID := gs.situationOrder[gs.round-1]
	row, ok := gs.rules.ScoringRow(sitID)
	if !ok {
		// 加载时校验过的规则不该缺行，走到这里按零分行继续结算
		log.Printf("⚠️ 房间 %s 第 %d 轮情境 %s 缺少计分行: %v", gs.room.Code, gs.round, sitID, apperrors.ErrInternalData)
	}

	active := gs.activeIDs()
	memberScores := score.RoundScores(row, gs.choices, active)

	// 统计技能使用（只计有效选择）
	for id, skillID := range gs.choices {
		if p, ok := gs.participants[id]; ok && !p.Left {
			gs.skillUsage[id][skillID]++
		}
	}

	for _, id := range active {
		gs.participants[id].Score += memberScores[id]
	}

	results := make(map[string]protocol.RoundResult)

	if gs.mode == room.ModeTeam {
		teamRound := score.TeamScores(memberScores, gs.teamOf)
		advanced := make(map[string]bool)
		for _, tid := range score.Advancers(teamRound) {
			advanced[tid] = true
		}
		for _, tid := range gs.teamOrder {
			t := gs.teams[tid]
			if !gs.teamHasActive(tid) {
				continue
			}
			t.Score += teamRound[tid]
			if advanced[tid] {
				t.Trail = min(t.Trail+1, score.MaxTrail)
			}
			results[tid] = protocol.RoundResult{
				Score:         teamRound[tid],
				TotalScore:    t.Score,
				AdvancedTrail: advanced[tid],
			}
		}
	} else {
		advanced := make(map[string]bool)
		for _, id := range score.Advancers(memberScores) {
			advanced[id] = true
		}
		for _, id := range active {
			p := gs.participants[id]
			if advanced[id] {
				p.Trail = min(p.Trail+1, score.MaxTrail)
			}
			results[id] = protocol.RoundResult{
				Choice:        gs.choices[id], // 1v1 回合结束后公开双方选择
				Score:         memberScores[id],
				TotalScore:    p.Score,
				AdvancedTrail: advanced[id],
			}
		}
	}

	gs.room.Broadcast(codec.MustNewMessage(protocol.MsgRoundEnd, protocol.RoundEndPayload{
		Round:   gs.round,
		Results: results,
		Players: gs.playersInfo(),
		Teams:   gs.teamsInfo(),
	}))

	log.Printf("🏁 房间 %s 第 %d/%d 轮结算完成", gs.room.Code, gs.round, gs.maxRounds)

	if gs.round >= gs.maxRounds || gs.round >= len(gs.situationOrder) {
		gs.finalizeLocked()
		return
	}

	// 停顿片刻再进入下一轮，给客户端展示结算
	gs.startPauseTimer()
}

// teamHasActive 判断队伍是否还有在场成员。调用方需持有 gs.mu。
func (gs *GameSession) teamHasActive(teamID string) bool {
	t, ok := gs.teams[teamID]
	if !ok {
		return false
	}
	for _, id := range t.Members {
		if p, ok := gs.participants[id]; ok && !p.Left {
			return true
		}
	}
	return false
}

// PlayerLeft 玩家离开房间后从对局摘除。
// 撤销其未结算的选择；剩下的人全都选完则立即结算；没人了就终止比赛。
func (gs *GameSession) PlayerLeft(playerID string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != GameStateRunning {
		return
	}
	p, ok := gs.participants[playerID]
	if !ok || p.Left {
		return
	}

	p.Left = true
	delete(gs.choices, playerID)

	active := gs.activeIDs()
	if len(active) == 0 {
		log.Printf("🛑 房间 %s 参与者全部离开，比赛终止", gs.room.Code)
		gs.state = GameStateEnded
		gs.stopRoundTimer()
		if gs.onEnd != nil {
			gs.onEnd()
		}
		return
	}

	if gs.allChosen() {
		gs.resolveRoundLocked(gs.round)
	}
}
