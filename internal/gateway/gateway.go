// Package gateway turns drafts and rewrite instructions into Gemini calls.
// Polisher restyles a base draft; Refiner applies a free-text instruction to
// the current text. Both return an error instead of a fallback so callers
// decide what to keep.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/training-report/internal/catalog"
	"github.com/jonathan/training-report/internal/llm"
	"github.com/jonathan/training-report/internal/prompts"
	"github.com/jonathan/training-report/internal/types"
)

// Sampling temperatures per call type
const (
	PolishTemperature float32 = 0.92
	RefineTemperature float32 = 0.7
)

var (
	// ErrUnavailable is returned when no LLM backend is configured
	ErrUnavailable = errors.New("text generation service unavailable")
	// ErrEmptyResponse is returned when the model answers with no text
	ErrEmptyResponse = errors.New("empty response from model")
)

// PolishRequest carries a base draft and the form it was built from
type PolishRequest struct {
	Draft     string
	Form      types.FormData
	Length    types.LengthType
	VariantID int
}

// RefineRequest carries the current text and a rewrite instruction
type RefineRequest struct {
	Text        string
	Instruction string
	Form        types.FormData
}

// Polisher restyles a base draft into finished report text
type Polisher interface {
	Polish(ctx context.Context, req PolishRequest) (string, error)
}

// Refiner rewrites text according to a user instruction
type Refiner interface {
	Refine(ctx context.Context, req RefineRequest) (string, error)
}

// Gateway is both a Polisher and a Refiner
type Gateway interface {
	Polisher
	Refiner
}

// Gemini implements Gateway on top of an llm.Client
type Gemini struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewGemini returns a gateway using the standard model tier
func NewGemini(client llm.Client) *Gemini {
	return &Gemini{client: client, tier: llm.TierStandard}
}

// WithTier returns a copy of the gateway that calls a different tier
func (g *Gemini) WithTier(tier llm.ModelTier) *Gemini {
	return &Gemini{client: g.client, tier: tier}
}

// Polish implements Polisher
func (g *Gemini) Polish(ctx context.Context, req PolishRequest) (string, error) {
	system, user, err := BuildPolishPrompts(req)
	if err != nil {
		return "", err
	}

	text, err := g.client.GenerateText(ctx, user, g.tier,
		llm.WithSystemInstruction(system),
		llm.WithTemperature(PolishTemperature),
	)
	if err != nil {
		return "", fmt.Errorf("polish %s variant %d: %w", req.Length, req.VariantID, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Refine implements Refiner
func (g *Gemini) Refine(ctx context.Context, req RefineRequest) (string, error) {
	system, user, err := BuildRefinePrompts(req)
	if err != nil {
		return "", err
	}

	text, err := g.client.GenerateText(ctx, user, g.tier,
		llm.WithSystemInstruction(system),
		llm.WithTemperature(RefineTemperature),
	)
	if err != nil {
		return "", fmt.Errorf("refine: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Unavailable is the gateway used when no API key is configured. Every call
// fails, so generation degrades to the sanitized draft.
type Unavailable struct{}

// Polish implements Polisher
func (Unavailable) Polish(context.Context, PolishRequest) (string, error) {
	return "", ErrUnavailable
}

// Refine implements Refiner
func (Unavailable) Refine(context.Context, RefineRequest) (string, error) {
	return "", ErrUnavailable
}

// BuildPolishPrompts renders the system instruction and user prompt for a
// polish call.
func BuildPolishPrompts(req PolishRequest) (system, user string, err error) {
	f := req.Form
	personality := catalog.PersonalityByID(f.Personality)
	tools := strings.Join(f.AllTools(), "、")

	lengthKey := prompts.KeyLengthStandard
	if req.Length == types.LengthLong {
		lengthKey = prompts.KeyLengthLong
	}
	lengthPrompt, err := prompts.Get(prompts.PolishFile, lengthKey)
	if err != nil {
		return "", "", err
	}

	systemTmpl, err := prompts.Get(prompts.PolishFile, prompts.KeySystem)
	if err != nil {
		return "", "", err
	}
	userTmpl, err := prompts.Get(prompts.PolishFile, prompts.KeyUser)
	if err != nil {
		return "", "", err
	}

	system = prompts.Format(systemTmpl, map[string]string{
		"PersonalityName": personality.Name,
		"PersonalityDesc": personality.Description,
		"VariantID":       strconv.Itoa(req.VariantID),
		"LengthPrompt":    lengthPrompt,
		"Tools":           tools,
	})
	user = prompts.Format(userTmpl, map[string]string{
		"PersonalityName": personality.Name,
		"Draft":           req.Draft,
		"Role":            f.EffectiveRole(),
		"Tools":           tools,
		"JobFlow":         f.JobFlow,
		"Issues":          strings.Join(types.WithOverflow(f.Issues, f.IssuesOther), ", "),
		"Learnings":       strings.Join(types.WithOverflow(f.LearningPoints, f.LearningPointsOther), ", "),
		"ApplyTasks":      strings.Join(types.WithOverflow(f.ApplyTasks, f.ApplyTasksOther), ", "),
		"ApplyMethods":    strings.Join(types.WithOverflow(f.ApplyMethods, f.ApplyMethodsOther), ", "),
		"KPIType":         f.KPIType,
		"KPIValue":        f.KPIValue,
		"KPIUnit":         f.KPIUnit,
	})
	return system, user, nil
}

// BuildRefinePrompts renders the system instruction and user prompt for a
// refine call.
func BuildRefinePrompts(req RefineRequest) (system, user string, err error) {
	personality := catalog.PersonalityByID(req.Form.Personality)

	systemTmpl, err := prompts.Get(prompts.RefineFile, prompts.KeySystem)
	if err != nil {
		return "", "", err
	}
	userTmpl, err := prompts.Get(prompts.RefineFile, prompts.KeyUser)
	if err != nil {
		return "", "", err
	}

	system = prompts.Format(systemTmpl, map[string]string{
		"MainTool":        req.Form.MainTool,
		"Role":            req.Form.EffectiveRole(),
		"PersonalityName": personality.Name,
	})
	user = prompts.Format(userTmpl, map[string]string{
		"Text":        req.Text,
		"Instruction": req.Instruction,
	})
	return system, user, nil
}
