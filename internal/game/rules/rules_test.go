package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rules.yaml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}

const validRules = `
skills:
  - id: shield
    name: "举盾"
    description: "稳妥防御"
  - id: charge
    name: "冲锋"
    description: "孤注一掷"

situations:
  - id: ambush
    text: "山道遇袭"
  - id: river
    text: "渡河断桥"

scoring:
  ambush:
    shield: 5
    charge: 2
  river:
    charge: 4
`

func TestLoad_Valid(t *testing.T) {
	t.Parallel()

	r, err := Load(writeRules(t, validRules))
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Len(t, r.Skills, 2)
	assert.Len(t, r.Situations, 2)
	assert.True(t, r.HasSkill("shield"))
	assert.False(t, r.HasSkill("fireball"))

	s, ok := r.SkillByID("charge")
	assert.True(t, ok)
	assert.Equal(t, "冲锋", s.Name)

	sit, ok := r.SituationByID("ambush")
	assert.True(t, ok)
	assert.Equal(t, "山道遇袭", sit.Text)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	r, err := Load("/nonexistent/rules.yaml")
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestScore(t *testing.T) {
	t.Parallel()

	r, err := Load(writeRules(t, validRules))
	require.NoError(t, err)

	assert.Equal(t, 5, r.Score("ambush", "shield"))
	assert.Equal(t, 2, r.Score("ambush", "charge"))
	// Missing entries score zero
	assert.Equal(t, 0, r.Score("river", "shield"))
	assert.Equal(t, 0, r.Score("unknown", "shield"))
}

func TestScoringRow(t *testing.T) {
	t.Parallel()

	r, err := Load(writeRules(t, validRules))
	require.NoError(t, err)

	row, ok := r.ScoringRow("ambush")
	assert.True(t, ok)
	assert.Len(t, row, 2)

	_, ok = r.ScoringRow("unknown")
	assert.False(t, ok)
}

func TestSkillNames(t *testing.T) {
	t.Parallel()

	r, err := Load(writeRules(t, validRules))
	require.NoError(t, err)

	names := r.SkillNames()
	assert.Equal(t, "举盾", names["shield"])
	assert.Equal(t, "冲锋", names["charge"])
}

func TestShuffledSituationIDs(t *testing.T) {
	t.Parallel()

	r, err := Load(writeRules(t, validRules))
	require.NoError(t, err)

	ids := r.ShuffledSituationIDs()
	assert.Len(t, ids, 2)
	assert.ElementsMatch(t, []string{"ambush", "river"}, ids)

	// A second call must not alias the first result
	ids2 := r.ShuffledSituationIDs()
	ids2[0] = "mutated"
	assert.ElementsMatch(t, []string{"ambush", "river"}, ids)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
	}{
		{
			name:    "no skills",
			content: "situations:\n  - id: a\n    text: x\n",
		},
		{
			name:    "no situations",
			content: "skills:\n  - id: a\n    name: x\n",
		},
		{
			name: "duplicate skill id",
			content: `
skills:
  - id: a
    name: x
  - id: a
    name: y
situations:
  - id: s1
    text: t
`,
		},
		{
			name: "situation without scoring row",
			content: `
skills:
  - id: a
    name: x
situations:
  - id: s1
    text: t
  - id: s2
    text: u
scoring:
  s1:
    a: 1
`,
		},
		{
			name: "scoring references unknown situation",
			content: `
skills:
  - id: a
    name: x
situations:
  - id: s1
    text: t
scoring:
  nope:
    a: 1
`,
		},
		{
			name: "scoring references unknown skill",
			content: `
skills:
  - id: a
    name: x
situations:
  - id: s1
    text: t
scoring:
  s1:
    ghost: 1
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r, err := Load(writeRules(t, tc.content))
			assert.Error(t, err)
			assert.Nil(t, r)
		})
	}
}
