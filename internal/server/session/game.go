package session

import (
	"sync"
	"time"

	"github.com/haoyun/skill-trail/internal/config"
	"github.com/haoyun/skill-trail/internal/game/room"
	"github.com/haoyun/skill-trail/internal/game/rules"
	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/server/storage"
)

// GameState 游戏状态
type GameState int

const (
	GameStateInit GameState = iota
	GameStateRunning
	GameStateEnded
)

// Participant 对局中的参与者（开局时从房间快照）
type Participant struct {
	ID     string
	Name   string
	Avatar string
	TeamID string // 组队模式所属队伍，1v1 为空
	Score  int    // 累计得分
	Trail  int    // 赛道位置（1v1 模式使用）
	Left   bool   // 已离开房间
}

// TeamUnit 组队模式的计分单位
type TeamUnit struct {
	ID      string
	Name    string
	Members []string
	Score   int // 累计得分
	Trail   int // 赛道位置
}

// GameSession 一局比赛的回合推进器。
// 房间只管花名册，本局的得分、赛道、选择都在这里。
// 回合结算有"全员已选"和倒计时两个触发源，以 resolved 标志和回合号双重守卫，
// 保证每回合恰好结算一次。
type GameSession struct {
	room        *room.Room
	rules       *rules.Rules
	cfg         *config.GameConfig
	leaderboard *storage.LeaderboardManager
	onEnd       func() // 比赛结束后由外层摘除会话

	state GameState
	mode  room.GameMode

	participants map[string]*Participant
	order        []string // 参与者顺序（按加入先后）
	teams        map[string]*TeamUnit
	teamOrder    []string
	teamOf       map[string]string // 参与者 → 队伍

	situationOrder []string          // 开局时洗乱的情境顺序
	round          int               // 当前回合，从 1 开始
	maxRounds      int
	choices        map[string]string // 本回合选择：参与者 → 技能
	resolved       bool              // 本回合是否已结算

	skillUsage map[string]map[string]int // 参与者 → 技能 → 使用次数

	roundTimer *time.Timer
	timerMu    sync.Mutex

	mu sync.RWMutex
}

// NewGameSession 创建游戏会话
func NewGameSession(r *room.Room, ru *rules.Rules, cfg *config.GameConfig, lb *storage.LeaderboardManager, onEnd func()) *GameSession {
	return &GameSession{
		room:        r,
		rules:       ru,
		cfg:         cfg,
		leaderboard: lb,
		onEnd:       onEnd,
		state:       GameStateInit,
	}
}

// State 当前游戏状态
func (gs *GameSession) State() GameState {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.state
}

// Round 当前回合号
func (gs *GameSession) Round() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.round
}

// activeIDs 返回仍在对局中的参与者，按加入顺序。调用方需持有 gs.mu。
func (gs *GameSession) activeIDs() []string {
	ids := make([]string, 0, len(gs.order))
	for _, id := range gs.order {
		if !gs.participants[id].Left {
			ids = append(ids, id)
		}
	}
	return ids
}

// allChosen 判断在场参与者是否全部完成选择。调用方需持有 gs.mu。
func (gs *GameSession) allChosen() bool {
	active := gs.activeIDs()
	if len(active) == 0 {
		return false
	}
	for _, id := range active {
		if _, ok := gs.choices[id]; !ok {
			return false
		}
	}
	return true
}

// playersInfo 构建带得分和赛道位置的玩家列表。调用方需持有 gs.mu。
func (gs *GameSession) playersInfo() []protocol.PlayerInfo {
	leaderID := gs.room.Leader()
	infos := make([]protocol.PlayerInfo, 0, len(gs.order))
	for _, id := range gs.order {
		p := gs.participants[id]
		if p.Left {
			continue
		}
		infos = append(infos, protocol.PlayerInfo{
			PlayerID:      p.ID,
			Name:          p.Name,
			Avatar:        p.Avatar,
			Score:         p.Score,
			TrailPosition: p.Trail,
			TeamID:        p.TeamID,
			IsLeader:      p.ID == leaderID,
		})
	}
	return infos
}

// teamsInfo 构建带得分和赛道位置的队伍列表，1v1 返回 nil。调用方需持有 gs.mu。
func (gs *GameSession) teamsInfo() []protocol.TeamInfo {
	if gs.mode != room.ModeTeam {
		return nil
	}
	infos := make([]protocol.TeamInfo, 0, len(gs.teamOrder))
	for _, tid := range gs.teamOrder {
		t := gs.teams[tid]
		members := make([]protocol.TeamMember, 0, len(t.Members))
		for _, id := range t.Members {
			p := gs.participants[id]
			if p.Left {
				continue
			}
			members = append(members, protocol.TeamMember{PlayerID: id, Name: p.Name})
		}
		infos = append(infos, protocol.TeamInfo{
			TeamID:        t.ID,
			Name:          t.Name,
			Score:         t.Score,
			TrailPosition: t.Trail,
			Members:       members,
		})
	}
	return infos
}

// skillInfos 把规则里的技能转成下发格式
func (gs *GameSession) skillInfos() []protocol.SkillInfo {
	infos := make([]protocol.SkillInfo, 0, len(gs.rules.Skills))
	for _, s := range gs.rules.Skills {
		infos = append(infos, protocol.SkillInfo{
			SkillID:     s.ID,
			Name:        s.Name,
			Description: s.Description,
		})
	}
	return infos
}
