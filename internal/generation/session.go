package generation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/training-report/internal/form"
	"github.com/jonathan/training-report/internal/scoring"
	"github.com/jonathan/training-report/internal/types"
)

// RefineStatus is the state of the refine indicator
type RefineStatus string

// Refine states
const (
	RefineIdle    RefineStatus = "idle"
	RefineRunning RefineStatus = "refining"
	RefineDone    RefineStatus = "done"
)

// refineDoneHold is how long "done" is reported before falling back to idle
const refineDoneHold = 3 * time.Second

// EntryWriter persists history entries
type EntryWriter interface {
	Insert(ctx context.Context, entry types.HistoryEntry) error
	Replace(ctx context.Context, entry types.HistoryEntry) error
}

// Snapshot is a read-only view of a session
type Snapshot struct {
	ID             string                  `json:"id"`
	Form           types.FormData          `json:"form"`
	VariantID      int                     `json:"variantId"`
	Outputs        []types.GeneratedOutput `json:"outputs"`
	ActiveTab      types.LengthType        `json:"activeTab"`
	EditedText     string                  `json:"editedText"`
	UndoDepth      int                     `json:"undoDepth"`
	RefineStatus   RefineStatus            `json:"refineStatus"`
	RefineError    string                  `json:"refineError,omitempty"`
	EditingEntryID string                  `json:"editingEntryId,omitempty"`
	Quality        scoring.Result          `json:"quality"`
	LearningPoints []string                `json:"learningPointOptions"`
}

// Session is one user's editing state. The mutex is never held across
// gateway calls; a generation token detects results that arrive after the
// session moved on.
type Session struct {
	id   string
	orch *Orchestrator
	now  func() time.Time

	mu             sync.Mutex
	form           types.FormData
	variant        int
	outputs        map[types.LengthType]types.GeneratedOutput
	activeTab      types.LengthType
	editedText     string
	undo           []string
	refineStatus   RefineStatus
	refineDoneAt   time.Time
	refineErr      string
	editingEntryID string
	token          uint64
	lastActive     time.Time
}

// NewSession starts an editing session for a fresh form
func NewSession(orch *Orchestrator, f types.FormData) *Session {
	s := &Session{
		id:           uuid.New().String(),
		orch:         orch,
		now:          time.Now,
		form:         f.Clone(),
		variant:      1,
		outputs:      make(map[types.LengthType]types.GeneratedOutput),
		activeTab:    types.LengthStandard,
		refineStatus: RefineIdle,
	}
	s.lastActive = s.now()
	return s
}

// ResumeSession opens a saved entry for editing. The edited text starts from
// the standard output, falling back to the first output.
func ResumeSession(orch *Orchestrator, entry types.HistoryEntry) *Session {
	s := NewSession(orch, entry.Data)
	s.editingEntryID = entry.ID
	for _, o := range entry.Outputs {
		s.outputs[o.LengthType] = o
	}
	if o, ok := entry.Output(types.LengthStandard); ok {
		s.editedText = o.Text
	} else if len(entry.Outputs) > 0 {
		s.editedText = entry.Outputs[0].Text
	}
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// LastActive returns the time of the last interaction
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch() {
	s.lastActive = s.now()
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	outputs := make([]types.GeneratedOutput, 0, len(s.outputs))
	for _, l := range types.AllLengthTypes {
		if o, ok := s.outputs[l]; ok {
			outputs = append(outputs, o)
		}
	}
	status := s.refineStatus
	if status == RefineDone && s.now().Sub(s.refineDoneAt) >= refineDoneHold {
		status = RefineIdle
	}
	return Snapshot{
		ID:             s.id,
		Form:           s.form.Clone(),
		VariantID:      s.variant,
		Outputs:        outputs,
		ActiveTab:      s.activeTab,
		EditedText:     s.editedText,
		UndoDepth:      len(s.undo),
		RefineStatus:   status,
		RefineError:    s.refineErr,
		EditingEntryID: s.editingEntryID,
		Quality:        scoring.ScoreForm(s.form),
		LearningPoints: form.LearningPointOptions(s.form),
	}
}

// UpdateForm applies a partial form update
func (s *Session) UpdateForm(patch types.FormPatch) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := form.Apply(s.form, patch)
	if err != nil {
		return Snapshot{}, err
	}
	s.form = next
	s.touch()
	return s.snapshotLocked(), nil
}

// Generate produces both outputs for the current form. A new variant is rolled
// only when requested. The edited text is replaced by the active tab's output.
func (s *Session) Generate(ctx context.Context, newVariant bool) (Snapshot, error) {
	s.mu.Lock()
	f := s.form.Clone()
	if err := ValidateForm(f); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	if newVariant {
		s.variant = s.orch.RollVariant()
	}
	variant := s.variant
	s.token++
	token := s.token
	s.touch()
	s.mu.Unlock()

	outs, err := s.orch.GenerateAll(ctx, f, variant)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return Snapshot{}, ErrStaleResult
	}
	s.outputs[types.LengthStandard] = outs.Standard
	s.outputs[types.LengthLong] = outs.Long
	s.editedText = outs.Get(s.activeTab).Text
	return s.snapshotLocked(), nil
}

// SetText replaces the editable text
func (s *Session) SetText(text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editedText = text
	s.touch()
	return s.snapshotLocked()
}

// SwitchTab selects a length. When that length has an output, its text
// replaces the edited text.
func (s *Session) SwitchTab(tab types.LengthType) (Snapshot, error) {
	if !tab.IsValid() {
		return Snapshot{}, &ValidationError{Field: "tab", Message: fmt.Sprintf("unknown length %q", tab)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeTab = tab
	if o, ok := s.outputs[tab]; ok {
		s.editedText = o.Text
	}
	s.touch()
	return s.snapshotLocked(), nil
}

// Refine rewrites the edited text with instruction. The current text is pushed
// onto the undo stack before the call; if the call fails the text stays as it
// was and the failure is reported in Snapshot.RefineError rather than as an
// error.
func (s *Session) Refine(ctx context.Context, instruction string) (Snapshot, error) {
	if strings.TrimSpace(instruction) == "" {
		return Snapshot{}, ErrEmptyInstruction
	}

	s.mu.Lock()
	if s.refineStatus == RefineRunning {
		s.mu.Unlock()
		return Snapshot{}, ErrRefineInProgress
	}
	current := s.editedText
	f := s.form.Clone()
	s.undo = append(s.undo, current)
	s.refineStatus = RefineRunning
	s.refineErr = ""
	token := s.token
	s.touch()
	s.mu.Unlock()

	refined, err := s.orch.Refine(ctx, current, instruction, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refineStatus = RefineDone
	s.refineDoneAt = s.now()
	if s.token != token {
		return Snapshot{}, ErrStaleResult
	}
	if err != nil {
		s.refineErr = err.Error()
	}
	s.editedText = refined
	return s.snapshotLocked(), nil
}

// Undo restores the text from before the last refine. It reports false when
// there is nothing to undo.
func (s *Session) Undo() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if len(s.undo) == 0 {
		return s.snapshotLocked(), false
	}
	last := len(s.undo) - 1
	s.editedText = s.undo[last]
	s.undo = s.undo[:last]
	return s.snapshotLocked(), true
}

// BuildEntry assembles the history entry for the current state. The edited
// text replaces the text of the active tab's output.
func (s *Session) BuildEntry(userID, id string) types.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildEntryLocked(userID, id)
}

func (s *Session) buildEntryLocked(userID, id string) types.HistoryEntry {
	if id == "" {
		id = uuid.New().String()
	}
	outputs := make([]types.GeneratedOutput, 0, len(s.outputs))
	for _, l := range types.AllLengthTypes {
		o, ok := s.outputs[l]
		if !ok {
			continue
		}
		if l == s.activeTab {
			o.Text = s.editedText
		}
		o.Warnings = append([]string{}, o.Warnings...)
		outputs = append(outputs, o)
	}
	return types.HistoryEntry{
		ID:        id,
		UserID:    userID,
		UserName:  s.form.UserName,
		Data:      s.form.Clone(),
		Outputs:   outputs,
		CreatedAt: s.now().UTC(),
		Status:    types.StatusSubmitted,
	}
}

// Save stores the session as a new history entry, or overwrites the entry it
// was opened from when overwrite is set. Session state only changes after the
// write succeeds.
func (s *Session) Save(ctx context.Context, w EntryWriter, userID string, overwrite bool) (types.HistoryEntry, error) {
	s.mu.Lock()
	if len(s.outputs) == 0 {
		s.mu.Unlock()
		return types.HistoryEntry{}, ErrNothingToSave
	}
	if overwrite && s.editingEntryID == "" {
		s.mu.Unlock()
		return types.HistoryEntry{}, ErrNotEditing
	}
	id := ""
	if overwrite {
		id = s.editingEntryID
	}
	entry := s.buildEntryLocked(userID, id)
	s.touch()
	s.mu.Unlock()

	var err error
	if overwrite {
		err = w.Replace(ctx, entry)
	} else {
		err = w.Insert(ctx, entry)
	}
	if err != nil {
		return types.HistoryEntry{}, fmt.Errorf("failed to save entry: %w", err)
	}

	s.mu.Lock()
	s.editingEntryID = entry.ID
	s.mu.Unlock()
	return entry, nil
}

// Reset invalidates in-flight generations and refines
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
}
