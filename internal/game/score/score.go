// Package score 纯计分逻辑，无任何副作用。
// 回合结算可能由"全员已选"或倒计时两条路径触发，结果必须与触发路径无关。
package score

import "sort"

// MaxTrail 赛道长度上限，前进到顶后位置不再增加
const MaxTrail = 20

// RoundScores 计算本回合每个参与者的得分。
// row 是当前情境的计分行；没有有效选择的参与者得 0 分。
func RoundScores(row map[string]int, choices map[string]string, present []string) map[string]int {
	scores := make(map[string]int, len(present))
	for _, id := range present {
		skillID, chose := choices[id]
		if !chose {
			scores[id] = 0
			continue
		}
		scores[id] = row[skillID]
	}
	return scores
}

// TeamScores 将成员回合得分按队伍汇总。
// teamOf 是参与者 ID → 队伍 ID 的映射，没有队伍的参与者被忽略。
func TeamScores(memberScores map[string]int, teamOf map[string]string) map[string]int {
	totals := make(map[string]int)
	for id, s := range memberScores {
		teamID, ok := teamOf[id]
		if !ok {
			continue
		}
		totals[teamID] += s
	}
	return totals
}

// Advancers 返回本回合路径前进的计分单位。
// 只有严格为正的最高分才前进，并列最高的全部前进；全零回合无人前进。
func Advancers(scores map[string]int) []string {
	max := 0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	if max <= 0 {
		return nil
	}

	var leaders []string
	for id, s := range scores {
		if s == max {
			leaders = append(leaders, id)
		}
	}
	sort.Strings(leaders)
	return leaders
}

// FinalScore 终局得分 = 累计得分 + 路径位置 × 每格加分
func FinalScore(cumulative, trail, bonus int) int {
	return cumulative + trail*bonus
}

// Winners 返回终局得分最高的全部计分单位（并列同胜）。
func Winners(finals map[string]int) []string {
	if len(finals) == 0 {
		return nil
	}

	first := true
	max := 0
	for _, s := range finals {
		if first || s > max {
			max = s
			first = false
		}
	}

	var winners []string
	for id, s := range finals {
		if s == max {
			winners = append(winners, id)
		}
	}
	sort.Strings(winners)
	return winners
}
