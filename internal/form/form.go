// Package form applies partial updates to the questionnaire and keeps the
// cross-field rules intact: tool selection follows the training, the main tool
// never appears among the additional tools, and switching roles clears the
// role-specific answers.
package form

import (
	"fmt"

	"github.com/jonathan/training-report/internal/catalog"
	"github.com/jonathan/training-report/internal/types"
)

// FieldError reports a form value that does not fit the catalog
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Apply merges patch into current and returns the updated form. The current
// form is not modified. Values explicitly present in the patch win over the
// resets triggered by the same patch.
func Apply(current types.FormData, patch types.FormPatch) (types.FormData, error) {
	next := current.Clone()

	if patch.TrainingType != nil && *patch.TrainingType != next.TrainingType {
		if !patch.TrainingType.IsValid() {
			return current, &FieldError{Field: "trainingType", Message: fmt.Sprintf("unknown training %q", *patch.TrainingType)}
		}
		next.TrainingType = *patch.TrainingType
		next.MainTool = ""
		next.AdditionalTools = []string{}
	}

	if patch.JobRole != nil && *patch.JobRole != next.JobRole {
		next.JobRole = *patch.JobRole
		next.JobTasks = []string{}
		next.JobTasksOther = ""
		next.Issues = []string{}
		next.ApplyTasks = []string{}
		next.ApplyMethods = []string{}
	}

	setString(&next.UserName, patch.UserName)
	setString(&next.JobRoleOther, patch.JobRoleOther)
	setString(&next.JobTasksOther, patch.JobTasksOther)
	setString(&next.JobFlow, patch.JobFlow)
	setString(&next.IssuesOther, patch.IssuesOther)
	setString(&next.IssueFlow, patch.IssueFlow)
	setString(&next.Frequency, patch.Frequency)
	setString(&next.Impact, patch.Impact)
	setString(&next.LearningPointsOther, patch.LearningPointsOther)
	setString(&next.Cautions, patch.Cautions)
	setString(&next.ApplyTasksOther, patch.ApplyTasksOther)
	setString(&next.ApplyMethodsOther, patch.ApplyMethodsOther)
	setString(&next.KPIType, patch.KPIType)
	setString(&next.KPITypeOther, patch.KPITypeOther)
	setString(&next.KPIValue, patch.KPIValue)
	setString(&next.KPIUnit, patch.KPIUnit)

	setList(&next.JobTasks, patch.JobTasks)
	setList(&next.Issues, patch.Issues)
	setList(&next.LearningContents, patch.LearningContents)
	setList(&next.LearningPoints, patch.LearningPoints)
	setList(&next.ApplyTasks, patch.ApplyTasks)
	setList(&next.ApplyMethods, patch.ApplyMethods)

	if patch.Personality != nil {
		if !catalog.IsPersonality(*patch.Personality) {
			return current, &FieldError{Field: "personality", Message: fmt.Sprintf("unknown personality %q", *patch.Personality)}
		}
		next.Personality = *patch.Personality
	}

	if patch.MainTool != nil {
		next.MainTool = *patch.MainTool
	}
	setList(&next.AdditionalTools, patch.AdditionalTools)

	next.AdditionalTools = excludeTool(dedupe(next.AdditionalTools), next.MainTool)

	if err := CheckTools(next); err != nil {
		return current, err
	}
	return next, nil
}

// SelectMainTool sets the main tool and drops it from the additional tools
func SelectMainTool(current types.FormData, tool string) (types.FormData, error) {
	return Apply(current, types.FormPatch{MainTool: &tool})
}

// ToggleAdditionalTool adds or removes a secondary tool. Selecting the main
// tool is a no-op.
func ToggleAdditionalTool(current types.FormData, tool string) (types.FormData, error) {
	if tool == current.MainTool {
		return current, nil
	}
	tools := make([]string, 0, len(current.AdditionalTools)+1)
	found := false
	for _, t := range current.AdditionalTools {
		if t == tool {
			found = true
			continue
		}
		tools = append(tools, t)
	}
	if !found {
		tools = append(tools, tool)
	}
	return Apply(current, types.FormPatch{AdditionalTools: tools})
}

// CheckTools verifies every selected tool belongs to the selected training
func CheckTools(f types.FormData) error {
	if !f.TrainingType.IsValid() {
		return &FieldError{Field: "trainingType", Message: fmt.Sprintf("unknown training %q", f.TrainingType)}
	}
	if f.MainTool != "" {
		if _, ok := catalog.FindTool(f.TrainingType, f.MainTool); !ok {
			return &FieldError{Field: "mainTool", Message: fmt.Sprintf("%q is not taught in %s", f.MainTool, f.TrainingType)}
		}
	}
	for _, t := range f.AdditionalTools {
		if _, ok := catalog.FindTool(f.TrainingType, t); !ok {
			return &FieldError{Field: "additionalTools", Message: fmt.Sprintf("%q is not taught in %s", t, f.TrainingType)}
		}
	}
	return nil
}

// LearningPointOptions returns the learning points offered for the selected
// tools: the union over the categories of the main and additional tools.
func LearningPointOptions(f types.FormData) []string {
	return catalog.LearningPointsFor(f.TrainingType, f.AllTools())
}

// RoleOptions returns the role-specific suggestions for the form's role
func RoleOptions(f types.FormData) catalog.RoleOptions {
	return catalog.OptionsForRole(f.JobRole)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v []string) {
	if v != nil {
		*dst = append([]string{}, v...)
	}
}

func excludeTool(tools []string, tool string) []string {
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		if t != tool {
			out = append(out, t)
		}
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
