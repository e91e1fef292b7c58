// Package generation drives report generation: it drafts, scores and polishes
// both length variants, and keeps the per-user editing session with its
// refine/undo history.
package generation

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/training-report/internal/drafting"
	"github.com/jonathan/training-report/internal/gateway"
	"github.com/jonathan/training-report/internal/scoring"
	"github.com/jonathan/training-report/internal/types"
	"golang.org/x/sync/errgroup"
)

// MaxVariant is the upper bound of a rolled variant id
const MaxVariant = 10

// requiredMessages are the user-facing messages for the required fields
var requiredMessages = map[string]string{
	"userName": "名前を入力してください",
	"mainTool": "メインツールを選択してください",
}

// Outputs holds one generated output per length
type Outputs struct {
	Standard types.GeneratedOutput `json:"standard"`
	Long     types.GeneratedOutput `json:"long"`
}

// Get returns the output for a length
func (o Outputs) Get(length types.LengthType) types.GeneratedOutput {
	if length == types.LengthLong {
		return o.Long
	}
	return o.Standard
}

// Slice returns the outputs standard first
func (o Outputs) Slice() []types.GeneratedOutput {
	return []types.GeneratedOutput{o.Standard, o.Long}
}

// Orchestrator turns a form into finished outputs
type Orchestrator struct {
	synth    *drafting.Synthesizer
	polisher gateway.Polisher
	refiner  gateway.Refiner
	rng      drafting.RandomSource
}

// NewOrchestrator wires the draft synthesizer, the LLM gateway and the random
// source used for variant rolls. A nil rng uses the process-wide source.
func NewOrchestrator(synth *drafting.Synthesizer, gw gateway.Gateway, rng drafting.RandomSource) *Orchestrator {
	if rng == nil {
		rng = drafting.DefaultSource()
	}
	if synth == nil {
		synth = drafting.NewSynthesizer(rng)
	}
	return &Orchestrator{synth: synth, polisher: gw, refiner: gw, rng: rng}
}

// ValidateForm checks the fields required before generation
func ValidateForm(f types.FormData) error {
	err := f.Validate()
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := lowerFirst(verrs[0].Field())
		msg, ok := requiredMessages[field]
		if !ok {
			msg = verrs[0].Error()
		}
		return &ValidationError{Field: field, Message: msg}
	}
	return err
}

// RollVariant returns a pseudo-random variant id in [1, MaxVariant]
func (o *Orchestrator) RollVariant() int {
	return o.rng.IntN(MaxVariant) + 1
}

// Draft returns the sanitized base draft and its score without calling the LLM
func (o *Orchestrator) Draft(f types.FormData, variantID int) (string, scoring.Result) {
	return o.synth.Synthesize(f, variantID), scoring.ScoreForm(f)
}

// GenerateAll validates the form and generates the standard and long outputs
// concurrently. Nothing is generated when validation fails.
func (o *Orchestrator) GenerateAll(ctx context.Context, f types.FormData, variantID int) (Outputs, error) {
	if err := ValidateForm(f); err != nil {
		return Outputs{}, err
	}

	var out Outputs
	var g errgroup.Group
	g.Go(func() error {
		out.Standard = o.GenerateSingle(ctx, f, types.LengthStandard, variantID)
		return nil
	})
	g.Go(func() error {
		out.Long = o.GenerateSingle(ctx, f, types.LengthLong, variantID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Outputs{}, err
	}
	return out, nil
}

// GenerateSingle drafts, scores and polishes one length. A failed or empty
// polish keeps the sanitized draft, so this never fails.
func (o *Orchestrator) GenerateSingle(ctx context.Context, f types.FormData, length types.LengthType, variantID int) types.GeneratedOutput {
	draft := o.synth.Synthesize(f, variantID)
	quality := scoring.ScoreForm(f)

	text, err := o.polisher.Polish(ctx, gateway.PolishRequest{
		Draft:     draft,
		Form:      f,
		Length:    length,
		VariantID: variantID,
	})
	switch {
	case err != nil:
		log.Printf("[generate] polish %s failed, keeping draft: %v", length, err)
		text = draft
	case strings.TrimSpace(text) == "":
		log.Printf("[generate] polish %s returned no text, keeping draft", length)
		text = draft
	}

	return types.GeneratedOutput{
		ID:         uuid.New().String(),
		Text:       text,
		LengthType: length,
		VariantID:  variantID,
		Score:      quality.Score,
		Warnings:   quality.Warnings,
	}
}

// Refine applies instruction to text. On failure the original text is
// returned together with the error.
func (o *Orchestrator) Refine(ctx context.Context, text, instruction string, f types.FormData) (string, error) {
	refined, err := o.refiner.Refine(ctx, gateway.RefineRequest{Text: text, Instruction: instruction, Form: f})
	if err != nil {
		log.Printf("[refine] keeping current text: %v", err)
		return text, err
	}
	return refined, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
