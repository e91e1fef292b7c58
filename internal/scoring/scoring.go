// Package scoring rates how specific a questionnaire is, before any text is
// generated, and explains what is missing.
package scoring

import (
	"unicode/utf8"

	"github.com/jonathan/training-report/internal/types"
)

// MaxScore is the upper bound of a quality score
const MaxScore = 100

// Warning messages, in rule order
const (
	WarnJobFlow  = "仕事内容をもっと詳しく書くと文章に具体性が出ます"
	WarnLearning = "研修で学んだ具体的な技術を選択、または入力してください"
	WarnMethod   = "具体的な活用手法を選択、または入力してください"
	WarnKPI      = "数値目標を設定すると説得力が増します"
	WarnIssue    = "課題が発生する頻度や弊害を記述してください"
)

// Result is a score with the warnings for every rule that earned nothing
type Result struct {
	Score    int      `json:"score"`
	Warnings []string `json:"warnings"`
}

// ScoreForm evaluates the five specificity rules. Lengths are counted in
// characters, not bytes.
func ScoreForm(f types.FormData) Result {
	score := 0
	warnings := []string{}

	switch n := utf8.RuneCountInString(f.JobFlow); {
	case n > 30:
		score += 20
	case n > 0:
		score += 10
	default:
		warnings = append(warnings, WarnJobFlow)
	}

	if len(f.LearningPoints) > 0 || utf8.RuneCountInString(f.LearningPointsOther) > 5 {
		score += 15
	} else {
		warnings = append(warnings, WarnLearning)
	}

	if len(f.ApplyMethods) > 0 || utf8.RuneCountInString(f.ApplyMethodsOther) > 5 {
		score += 15
	} else {
		warnings = append(warnings, WarnMethod)
	}

	switch {
	case f.KPIType != "" && f.KPIValue != "" && f.KPIUnit != "":
		score += 30
	case f.KPIType != "":
		score += 15
	default:
		warnings = append(warnings, WarnKPI)
	}

	if f.Frequency != "" || f.Impact != "" || utf8.RuneCountInString(f.IssuesOther) > 10 {
		score += 20
	} else {
		warnings = append(warnings, WarnIssue)
	}

	return Result{Score: min(MaxScore, score), Warnings: warnings}
}
