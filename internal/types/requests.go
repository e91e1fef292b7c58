package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the fields required before any generation is attempted
func (f *FormData) Validate() error {
	return validate.Struct(f)
}

// LoginRequest is the static-credential login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// GenerateRequest asks a session to (re)generate both length variants
type GenerateRequest struct {
	NewVariant bool `json:"newVariant"`
}

// RefineRequest carries a free-text rewrite instruction
type RefineRequest struct {
	Instruction string `json:"instruction" validate:"required"`
}

// Validate validates the RefineRequest using the validator.
func (r *RefineRequest) Validate() error {
	return validate.Struct(r)
}

// EditTextRequest replaces the editable text of the active tab
type EditTextRequest struct {
	Text string `json:"text"`
}

// SwitchTabRequest selects which length output is being edited
type SwitchTabRequest struct {
	Tab LengthType `json:"tab" validate:"required,oneof=standard long"`
}

// Validate validates the SwitchTabRequest using the validator.
func (r *SwitchTabRequest) Validate() error {
	return validate.Struct(r)
}

// DeleteEntriesRequest deletes history entries by id
type DeleteEntriesRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// Validate validates the DeleteEntriesRequest using the validator.
func (r *DeleteEntriesRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateStatusRequest moves a history entry through its lifecycle
type UpdateStatusRequest struct {
	Status EntryStatus `json:"status" validate:"required,oneof=draft submitted reviewed returned"`
}

// Validate validates the UpdateStatusRequest using the validator.
func (r *UpdateStatusRequest) Validate() error {
	return validate.Struct(r)
}

// FormPatch is a partial update of the questionnaire. Nil fields are left unchanged.
type FormPatch struct {
	UserName *string `json:"userName,omitempty"`

	TrainingType    *TrainingType `json:"trainingType,omitempty"`
	MainTool        *string       `json:"mainTool,omitempty"`
	AdditionalTools []string      `json:"additionalTools,omitempty"`

	JobRole       *string  `json:"jobRole,omitempty"`
	JobRoleOther  *string  `json:"jobRoleOther,omitempty"`
	JobTasks      []string `json:"jobTasks,omitempty"`
	JobTasksOther *string  `json:"jobTasksOther,omitempty"`
	JobFlow       *string  `json:"jobFlow,omitempty"`

	Issues      []string `json:"issues,omitempty"`
	IssuesOther *string  `json:"issuesOther,omitempty"`
	IssueFlow   *string  `json:"issueFlow,omitempty"`
	Frequency   *string  `json:"frequency,omitempty"`
	Impact      *string  `json:"impact,omitempty"`

	LearningContents    []string `json:"learningContents,omitempty"`
	LearningPoints      []string `json:"learningPoints,omitempty"`
	LearningPointsOther *string  `json:"learningPointsOther,omitempty"`
	Cautions            *string  `json:"cautions,omitempty"`

	ApplyTasks        []string `json:"applyTasks,omitempty"`
	ApplyTasksOther   *string  `json:"applyTasksOther,omitempty"`
	ApplyMethods      []string `json:"applyMethods,omitempty"`
	ApplyMethodsOther *string  `json:"applyMethodsOther,omitempty"`

	KPIType      *string `json:"kpiType,omitempty"`
	KPITypeOther *string `json:"kpiTypeOther,omitempty"`
	KPIValue     *string `json:"kpiValue,omitempty"`
	KPIUnit      *string `json:"kpiUnit,omitempty"`

	Personality *string `json:"personality,omitempty"`
}
