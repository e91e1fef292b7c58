// Package drafting builds the deterministic Japanese base draft of a training
// report from the questionnaire. The only nondeterminism is the synonym choice,
// which comes from an injectable random source.
package drafting

import (
	"fmt"
	"strings"

	"github.com/jonathan/training-report/internal/catalog"
	"github.com/jonathan/training-report/internal/types"
)

// Skeleton is one of the fixed segment orderings
type Skeleton int

// Skeletons, selected by variant id modulo SkeletonCount
const (
	SkeletonJobFirst Skeleton = iota
	SkeletonLearningFirst
	SkeletonUrgency
	SkeletonGoalDriven

	SkeletonCount = 4
)

// SkeletonFor maps a variant id onto a skeleton. Negative ids wrap around.
func SkeletonFor(variantID int) Skeleton {
	m := variantID % SkeletonCount
	if m < 0 {
		m += SkeletonCount
	}
	return Skeleton(m)
}

func (s Skeleton) String() string {
	switch s {
	case SkeletonJobFirst:
		return "job-first"
	case SkeletonLearningFirst:
		return "learning-first"
	case SkeletonUrgency:
		return "urgency"
	case SkeletonGoalDriven:
		return "goal-driven"
	default:
		return fmt.Sprintf("skeleton(%d)", int(s))
	}
}

const (
	fallbackImpact = "多大な工数"
	fallbackKPI    = "工数"
	fallbackIssue  = "業務効率"
)

// Segments holds the five sentence blocks a draft is assembled from
type Segments struct {
	Job      string
	Issue    string
	Learning string
	Apply    string
	Effect   string
}

// Synthesizer assembles drafts
type Synthesizer struct {
	thesaurus *Thesaurus
	sanitizer *Sanitizer
}

// NewSynthesizer returns a synthesizer with the built-in tables
func NewSynthesizer(rng RandomSource) *Synthesizer {
	return &Synthesizer{thesaurus: NewThesaurus(rng), sanitizer: NewSanitizer()}
}

// NewSynthesizerWith returns a synthesizer using the given collaborators
func NewSynthesizerWith(thesaurus *Thesaurus, sanitizer *Sanitizer) *Synthesizer {
	return &Synthesizer{thesaurus: thesaurus, sanitizer: sanitizer}
}

// Sanitizer returns the sanitizer applied to every draft
func (s *Synthesizer) Sanitizer() *Sanitizer {
	return s.sanitizer
}

type joined struct {
	role         string
	tools        string
	tasks        string
	issues       string
	learnings    string
	applyMethods string
	applyTasks   string
}

func join(f *types.FormData) joined {
	return joined{
		role:         f.EffectiveRole(),
		tools:        strings.Join(f.AllTools(), "や"),
		tasks:        strings.Join(types.WithOverflow(f.JobTasks, f.JobTasksOther), "、"),
		issues:       strings.Join(types.WithOverflow(f.Issues, f.IssuesOther), "や"),
		learnings:    strings.Join(types.WithOverflow(f.LearningPoints, f.LearningPointsOther), "、"),
		applyMethods: strings.Join(types.WithOverflow(f.ApplyMethods, f.ApplyMethodsOther), "、"),
		applyTasks:   strings.Join(types.WithOverflow(f.ApplyTasks, f.ApplyTasksOther), "、"),
	}
}

// BuildSegments renders the five segments. Synonyms are drawn for the apply
// and effect segments, in that order.
func (s *Synthesizer) BuildSegments(f types.FormData) Segments {
	j := join(&f)

	var issue strings.Builder
	issue.WriteString("しかし" + j.issues + "といった点が課題となっており、")
	if f.Frequency != "" {
		issue.WriteString(f.Frequency + "発生する中で")
	}
	if f.Impact != "" {
		issue.WriteString(f.Impact + "という問題")
	} else {
		issue.WriteString(fallbackImpact)
	}
	issue.WriteString("を抱えています。")

	kpi := f.KPIType
	if kpi == "" {
		kpi = fallbackKPI
	}

	apply := "今後は" + j.applyTasks + "において、" + j.applyMethods + "を" +
		s.thesaurus.Pick(catalog.PhraseUtilize) + "ことで、業務の" +
		s.thesaurus.Pick(catalog.PhraseStreamline) + "を実現したいと考えています。"

	effect := "この取り組みにより、" + kpi + "の" + f.KPIValue + f.KPIUnit + "改善を目指し、" +
		s.thesaurus.Pick(catalog.PhrasePromptly) + "質の高いアウトプットを出せるよう注力します。"

	return Segments{
		Job:      "私は" + j.role + "として、日頃から" + j.tasks + "といった業務に取り組んでいます。具体的には、" + f.JobFlow + "といったプロセスで進めています。",
		Issue:    issue.String(),
		Learning: "今回の研修では" + j.tools + "を学び、特に" + j.learnings + "といった点に大きな気づきがありました。",
		Apply:    apply,
		Effect:   effect,
	}
}

// Synthesize builds the sanitized base draft for the form and variant
func (s *Synthesizer) Synthesize(f types.FormData, variantID int) string {
	seg := s.BuildSegments(f)
	j := join(&f)

	var draft string
	switch SkeletonFor(variantID) {
	case SkeletonJobFirst:
		draft = seg.Job + " " + seg.Issue + " 研修にて習得した" + j.learnings + "を活かし、" + seg.Apply + " 結果として" + seg.Effect
	case SkeletonLearningFirst:
		draft = seg.Learning + " この学びを" + seg.Job + "に繋げたいと思います。現状の" + j.issues + "という課題に対し、" + seg.Apply + " 最終的には" + seg.Effect
	case SkeletonUrgency:
		first := fallbackIssue
		if len(f.Issues) > 0 && f.Issues[0] != "" {
			first = f.Issues[0]
		}
		draft = "これまで" + seg.Job + "の中で、" + first + "の改善が急務でした。" + seg.Learning + " 今後は" + seg.Apply + " これにより" + seg.Effect
	case SkeletonGoalDriven:
		draft = j.role + "の業務を" + s.thesaurus.Pick(catalog.PhraseStreamline) + "すべく、研修で" + j.tools + "を学びました。" + seg.Issue + " " + seg.Apply + " 目標として" + seg.Effect
	}

	return s.sanitizer.Sanitize(draft)
}
