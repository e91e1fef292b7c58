// Package types provides type definitions for structured data used throughout the training report generator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// TrainingType identifies one of the fixed training courses
type TrainingType string

// Training course identifiers
const (
	TrainingAIPractice            TrainingType = "AI活用実践編"
	TrainingVideoProduction       TrainingType = "映像制作編"
	TrainingOperationalEfficiency TrainingType = "業務効率化編"
	TrainingAICulture             TrainingType = "生成AI社内浸透編"
)

// AllTrainingTypes lists every training course in display order
var AllTrainingTypes = []TrainingType{
	TrainingAIPractice,
	TrainingVideoProduction,
	TrainingOperationalEfficiency,
	TrainingAICulture,
}

// IsValid reports whether t is one of the fixed training courses
func (t TrainingType) IsValid() bool {
	for _, known := range AllTrainingTypes {
		if t == known {
			return true
		}
	}
	return false
}

// LengthType classifies a generated text by its target length band
type LengthType string

// Length classifications
const (
	LengthStandard LengthType = "standard"
	LengthLong     LengthType = "long"
)

// AllLengthTypes lists both length classifications, standard first
var AllLengthTypes = []LengthType{LengthStandard, LengthLong}

// CharRange returns the target character band for the length classification
func (l LengthType) CharRange() (minChars, maxChars int) {
	switch l {
	case LengthLong:
		return 450, 650
	default:
		return 280, 420
	}
}

// IsValid reports whether l is a known length classification
func (l LengthType) IsValid() bool {
	return l == LengthStandard || l == LengthLong
}

// EntryStatus is the lifecycle state of a saved history entry
type EntryStatus string

// History entry statuses
const (
	StatusDraft     EntryStatus = "draft"
	StatusSubmitted EntryStatus = "submitted"
	StatusReviewed  EntryStatus = "reviewed"
	StatusReturned  EntryStatus = "returned"
)

// IsValid reports whether s is a known status
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusReviewed, StatusReturned:
		return true
	}
	return false
}

// OtherOption is the select value that switches a field to its free-text overflow
const OtherOption = "その他"

// DefaultPersonality is the tone used when none is selected
const DefaultPersonality = "logical"

// FormData is the complete questionnaire snapshot that drives generation
type FormData struct {
	UserName string `json:"userName" validate:"required"`

	TrainingType    TrainingType `json:"trainingType"`
	MainTool        string       `json:"mainTool" validate:"required"`
	AdditionalTools []string     `json:"additionalTools"`

	JobRole       string   `json:"jobRole"`
	JobRoleOther  string   `json:"jobRoleOther"`
	JobTasks      []string `json:"jobTasks"`
	JobTasksOther string   `json:"jobTasksOther"`
	JobFlow       string   `json:"jobFlow"`

	Issues      []string `json:"issues"`
	IssuesOther string   `json:"issuesOther"`
	IssueFlow   string   `json:"issueFlow"`
	Frequency   string   `json:"frequency"`
	Impact      string   `json:"impact"`

	LearningContents    []string `json:"learningContents"`
	LearningPoints      []string `json:"learningPoints"`
	LearningPointsOther string   `json:"learningPointsOther"`
	Cautions            string   `json:"cautions"`

	ApplyTasks        []string `json:"applyTasks"`
	ApplyTasksOther   string   `json:"applyTasksOther"`
	ApplyMethods      []string `json:"applyMethods"`
	ApplyMethodsOther string   `json:"applyMethodsOther"`

	KPIType      string `json:"kpiType"`
	KPITypeOther string `json:"kpiTypeOther"`
	KPIValue     string `json:"kpiValue"`
	KPIUnit      string `json:"kpiUnit"`

	Personality string `json:"personality"`
}

// NewFormData returns an empty questionnaire with the original defaults
func NewFormData() FormData {
	return FormData{
		TrainingType:     TrainingAIPractice,
		AdditionalTools:  []string{},
		JobTasks:         []string{},
		Issues:           []string{},
		LearningContents: []string{},
		LearningPoints:   []string{},
		ApplyTasks:       []string{},
		ApplyMethods:     []string{},
		Personality:      DefaultPersonality,
	}
}

// EffectiveRole returns the free-text role when "other" is selected
func (f *FormData) EffectiveRole() string {
	if f.JobRole == OtherOption {
		return f.JobRoleOther
	}
	return f.JobRole
}

// AllTools returns the main tool followed by the additional tools, skipping blanks
func (f *FormData) AllTools() []string {
	tools := make([]string, 0, 1+len(f.AdditionalTools))
	for _, t := range append([]string{f.MainTool}, f.AdditionalTools...) {
		if t != "" {
			tools = append(tools, t)
		}
	}
	return tools
}

// WithOverflow appends a non-empty free-text overflow to the selected items
func WithOverflow(selected []string, other string) []string {
	out := make([]string, 0, len(selected)+1)
	out = append(out, selected...)
	if other != "" {
		out = append(out, other)
	}
	return out
}

// Clone returns a deep copy so snapshots never share slices with live state
func (f FormData) Clone() FormData {
	c := f
	c.AdditionalTools = cloneStrings(f.AdditionalTools)
	c.JobTasks = cloneStrings(f.JobTasks)
	c.Issues = cloneStrings(f.Issues)
	c.LearningContents = cloneStrings(f.LearningContents)
	c.LearningPoints = cloneStrings(f.LearningPoints)
	c.ApplyTasks = cloneStrings(f.ApplyTasks)
	c.ApplyMethods = cloneStrings(f.ApplyMethods)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// GeneratedOutput is one produced text for a single length classification
type GeneratedOutput struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	LengthType LengthType `json:"lengthType"`
	VariantID  int        `json:"variantId"`
	Score      int        `json:"score"`
	Warnings   []string   `json:"warnings"`
}

// HistoryEntry is a persisted report together with its generated outputs
type HistoryEntry struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	UserName  string            `json:"userName"`
	Data      FormData          `json:"data"`
	Outputs   []GeneratedOutput `json:"outputs"`
	CreatedAt time.Time         `json:"createdAt"`
	Status    EntryStatus       `json:"status"`
}

// Output returns the output for the given length, if present
func (e *HistoryEntry) Output(length LengthType) (GeneratedOutput, bool) {
	for _, o := range e.Outputs {
		if o.LengthType == length {
			return o, true
		}
	}
	return GeneratedOutput{}, false
}

// Summary returns a short one-line label for listings
func (e *HistoryEntry) Summary() string {
	parts := []string{e.UserName, string(e.Data.TrainingType), e.Data.MainTool}
	return strings.Join(parts, " / ")
}
