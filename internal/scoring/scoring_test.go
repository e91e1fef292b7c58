package scoring

import (
	"strings"
	"testing"

	"github.com/jonathan/training-report/internal/types"
	"github.com/stretchr/testify/assert"
)

func fullForm() types.FormData {
	f := types.NewFormData()
	f.JobFlow = strings.Repeat("あ", 40)
	f.LearningPoints = []string{"プロンプトエンジニアリング"}
	f.ApplyMethods = []string{"FAQの自動生成"}
	f.KPIType = "工数"
	f.KPIValue = "30"
	f.KPIUnit = "%"
	f.Frequency = "毎日"
	return f
}

func TestScoreForm_Full(t *testing.T) {
	r := ScoreForm(fullForm())
	assert.Equal(t, 100, r.Score)
	assert.Empty(t, r.Warnings)
}

func TestScoreForm_Empty(t *testing.T) {
	r := ScoreForm(types.NewFormData())
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, []string{WarnJobFlow, WarnLearning, WarnMethod, WarnKPI, WarnIssue}, r.Warnings)
}

func TestScoreForm_Rules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *types.FormData)
		wantScore int
		wantWarn  []string
	}{
		{
			name:      "short job flow",
			mutate:    func(f *types.FormData) { f.JobFlow = "訪問" },
			wantScore: 90,
		},
		{
			name:      "job flow of exactly 30 characters counts as short",
			mutate:    func(f *types.FormData) { f.JobFlow = strings.Repeat("あ", 30) },
			wantScore: 90,
		},
		{
			name:      "empty job flow",
			mutate:    func(f *types.FormData) { f.JobFlow = "" },
			wantScore: 80,
			wantWarn:  []string{WarnJobFlow},
		},
		{
			name: "learning overflow text of 6 characters",
			mutate: func(f *types.FormData) {
				f.LearningPoints = nil
				f.LearningPointsOther = "六文字の学び"
			},
			wantScore: 100,
		},
		{
			name: "learning overflow text of 5 characters",
			mutate: func(f *types.FormData) {
				f.LearningPoints = nil
				f.LearningPointsOther = "五文字学び"
			},
			wantScore: 85,
			wantWarn:  []string{WarnLearning},
		},
		{
			name: "method overflow too short",
			mutate: func(f *types.FormData) {
				f.ApplyMethods = []string{}
				f.ApplyMethodsOther = "短い"
			},
			wantScore: 85,
			wantWarn:  []string{WarnMethod},
		},
		{
			name:      "kpi type only",
			mutate:    func(f *types.FormData) { f.KPIValue = "" },
			wantScore: 85,
		},
		{
			name: "no kpi",
			mutate: func(f *types.FormData) {
				f.KPIType = ""
			},
			wantScore: 70,
			wantWarn:  []string{WarnKPI},
		},
		{
			name: "impact alone satisfies the issue rule",
			mutate: func(f *types.FormData) {
				f.Frequency = ""
				f.Impact = "品質低下"
			},
			wantScore: 100,
		},
		{
			name: "long issue overflow satisfies the issue rule",
			mutate: func(f *types.FormData) {
				f.Frequency = ""
				f.IssuesOther = "十一文字以上の課題の説明"
			},
			wantScore: 100,
		},
		{
			name: "missing issue detail",
			mutate: func(f *types.FormData) {
				f.Frequency = ""
				f.IssuesOther = "ちょうど十文字の課題"
			},
			wantScore: 80,
			wantWarn:  []string{WarnIssue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fullForm()
			tt.mutate(&f)

			r := ScoreForm(f)
			assert.Equal(t, tt.wantScore, r.Score)
			if tt.wantWarn == nil {
				assert.Empty(t, r.Warnings)
			} else {
				assert.Equal(t, tt.wantWarn, r.Warnings)
			}
		})
	}
}

func TestScoreForm_WarningOrder(t *testing.T) {
	f := fullForm()
	f.JobFlow = ""
	f.Frequency = ""

	r := ScoreForm(f)
	assert.Equal(t, []string{WarnJobFlow, WarnIssue}, r.Warnings)
	assert.Equal(t, 60, r.Score)
}
