// Package rules 加载技能、情境与计分表，进程启动时读取一次，此后只读。
package rules

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// Skill 玩家每轮可选的技能
type Skill struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Situation 每轮的情境题面
type Situation struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Rules 静态规则数据
type Rules struct {
	Skills     []Skill                   `yaml:"skills"`
	Situations []Situation               `yaml:"situations"`
	Scoring    map[string]map[string]int `yaml:"scoring"` // 情境 ID → 技能 ID → 得分

	skillIndex     map[string]Skill
	situationIndex map[string]Situation
}

// Load 从 YAML 文件加载规则
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	r.buildIndexes()
	return &r, nil
}

// Validate 校验规则完整性
func (r *Rules) Validate() error {
	if len(r.Skills) == 0 {
		return fmt.Errorf("规则中没有任何技能")
	}
	if len(r.Situations) == 0 {
		return fmt.Errorf("规则中没有任何情境")
	}

	seen := make(map[string]bool, len(r.Skills))
	for _, s := range r.Skills {
		if s.ID == "" {
			return fmt.Errorf("技能缺少 ID")
		}
		if seen[s.ID] {
			return fmt.Errorf("技能 ID 重复: %s", s.ID)
		}
		seen[s.ID] = true
	}

	seenSit := make(map[string]bool, len(r.Situations))
	for _, s := range r.Situations {
		if s.ID == "" {
			return fmt.Errorf("情境缺少 ID")
		}
		if seenSit[s.ID] {
			return fmt.Errorf("情境 ID 重复: %s", s.ID)
		}
		seenSit[s.ID] = true
	}

	// 每个情境都必须有计分行，缺行会让整轮得零分
	for _, s := range r.Situations {
		if _, ok := r.Scoring[s.ID]; !ok {
			return fmt.Errorf("情境 %s 缺少计分行", s.ID)
		}
	}

	// 计分表只能引用已声明的情境和技能
	for sitID, row := range r.Scoring {
		if !seenSit[sitID] {
			return fmt.Errorf("计分表引用了未知情境: %s", sitID)
		}
		for skillID := range row {
			if !seen[skillID] {
				return fmt.Errorf("计分表引用了未知技能: %s", skillID)
			}
		}
	}

	return nil
}

func (r *Rules) buildIndexes() {
	r.skillIndex = make(map[string]Skill, len(r.Skills))
	for _, s := range r.Skills {
		r.skillIndex[s.ID] = s
	}
	r.situationIndex = make(map[string]Situation, len(r.Situations))
	for _, s := range r.Situations {
		r.situationIndex[s.ID] = s
	}
}

// HasSkill 判断技能是否存在
func (r *Rules) HasSkill(id string) bool {
	_, ok := r.SkillByID(id)
	return ok
}

// SkillByID 按 ID 查找技能
func (r *Rules) SkillByID(id string) (Skill, bool) {
	s, ok := r.skillIndex[id]
	return s, ok
}

// SituationByID 按 ID 查找情境
func (r *Rules) SituationByID(id string) (Situation, bool) {
	s, ok := r.situationIndex[id]
	return s, ok
}

// SkillNames 返回技能 ID → 名称的映射（终局播报用）
func (r *Rules) SkillNames() map[string]string {
	names := make(map[string]string, len(r.Skills))
	for _, s := range r.Skills {
		names[s.ID] = s.Name
	}
	return names
}

// Score 查计分表，缺失项按 0 分处理
func (r *Rules) Score(situationID, skillID string) int {
	row, ok := r.Scoring[situationID]
	if !ok {
		return 0
	}
	return row[skillID]
}

// ScoringRow 返回某情境的完整计分行
func (r *Rules) ScoringRow(situationID string) (map[string]int, bool) {
	row, ok := r.Scoring[situationID]
	return row, ok
}

// ShuffledSituationIDs 返回全部情境 ID 的随机排列
func (r *Rules) ShuffledSituationIDs() []string {
	ids := make([]string, len(r.Situations))
	for i, s := range r.Situations {
		ids[i] = s.ID
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}
