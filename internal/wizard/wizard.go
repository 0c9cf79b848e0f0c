package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/joramcars/dealership-web/pkg/backend"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/kv"
	"github.com/joramcars/dealership-web/pkg/logger"
	"github.com/joramcars/dealership-web/pkg/metrics"
)

// DefaultSuccessPath is where the seller lands after a successful submission.
const DefaultSuccessPath = "/"

// Submitter sends the finished form to the API.
type Submitter interface {
	SubmitSellRequest(ctx context.Context, sub backend.SellRequestSubmission) (*backend.SellRequest, error)
}

// Deps are the collaborators of a live wizard.
type Deps struct {
	Store     kv.Store
	Navigator Navigator
	Submitter Submitter
	Logger    *logger.Logger
	Metrics   *metrics.WizardMetrics
	// SuccessPath defaults to DefaultSuccessPath.
	SuccessPath string
}

// State is a snapshot of the wizard.
type State struct {
	Step   Step    `json:"currentStep"`
	Fields Fields  `json:"fields"`
	Images []Image `json:"images"`
	// DraftPending is set between mount and the seller's resume/discard choice.
	DraftPending bool `json:"draftPending"`
	Submitting   bool `json:"submitting"`
	Completed    bool `json:"completed"`
}

// Wizard drives the four-step sell-car form. Every mutation that changes the
// fields or the step ends by saving the draft.
type Wizard struct {
	mu   sync.Mutex
	deps Deps

	step   Step
	fields Fields
	images []Image

	pending    *Draft
	submitting bool
	completed  bool
}

// Mount starts a fresh wizard and reads the stored draft once. A draft that
// cannot be read never fails the mount.
func Mount(ctx context.Context, deps Deps) *Wizard {
	if deps.SuccessPath == "" {
		deps.SuccessPath = DefaultSuccessPath
	}
	if deps.Navigator == nil {
		deps.Navigator = &Recorder{}
	}
	w := &Wizard{deps: deps, step: FirstStep, fields: NewFields()}

	draft, err := readDraft(ctx, deps.Store)
	if err != nil && deps.Logger != nil {
		deps.Logger.Error(ctx, "read sell car draft", err)
	}
	w.pending = draft
	return w
}

// State returns a snapshot.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

// PendingDraft returns the stored draft offered for resumption, if any.
func (w *Wizard) PendingDraft() (Draft, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return Draft{}, false
	}
	return *w.pending, true
}

// Resume loads the stored draft into the form.
func (w *Wizard) Resume(ctx context.Context) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkMutableLocked(); err != nil {
		return w.stateLocked(), err
	}
	if w.pending == nil {
		return w.stateLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "no saved draft to resume")
	}
	w.fields = w.pending.Fields
	w.step = w.pending.CurrentStep
	w.pending = nil
	w.persistLocked(ctx)
	return w.stateLocked(), nil
}

// Discard declines the stored draft and keeps the fresh form. The stored
// draft itself is left in place.
func (w *Wizard) Discard() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = nil
	return w.stateLocked()
}

// SetFields merges edited form values.
func (w *Wizard) SetFields(ctx context.Context, patch map[string]string) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkMutableLocked(); err != nil {
		return w.stateLocked(), err
	}
	next, err := w.fields.Apply(patch)
	if err != nil {
		return w.stateLocked(), err
	}
	w.pending = nil
	w.fields = next
	w.persistLocked(ctx)
	return w.stateLocked(), nil
}

// Next advances one step after checking the current step's fields.
func (w *Wizard) Next(ctx context.Context) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkMutableLocked(); err != nil {
		return w.stateLocked(), err
	}
	if w.step >= LastStep {
		return w.stateLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot advance past step %d", w.step))
	}
	if err := ValidateStep(w.fields, w.step); err != nil {
		return w.stateLocked(), err
	}
	w.pending = nil
	w.step++
	w.afterTransitionLocked(ctx, "next")
	return w.stateLocked(), nil
}

// Previous goes back one step.
func (w *Wizard) Previous(ctx context.Context) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkMutableLocked(); err != nil {
		return w.stateLocked(), err
	}
	if w.step <= FirstStep {
		return w.stateLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot go back from step %d", w.step))
	}
	w.pending = nil
	w.step--
	w.afterTransitionLocked(ctx, "previous")
	return w.stateLocked(), nil
}

// AddImages appends photos on the Photos step. A batch that would exceed the
// cap, or that holds a non-image file, is rejected as a whole.
func (w *Wizard) AddImages(files []Upload) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkMutableLocked(); err != nil {
		return w.stateLocked(), err
	}
	if w.step != StepPhotos {
		return w.stateLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "photos can only be added on the photos step")
	}
	if len(w.images)+len(files) > MaxImages {
		return w.stateLocked(), pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("you can upload up to %d photos", MaxImages)).
			WithDetails(map[string]int{"max": MaxImages, "current": len(w.images), "requested": len(files)})
	}
	accepted, err := sniffImages(files)
	if err != nil {
		return w.stateLocked(), err
	}
	w.pending = nil
	w.images = append(w.images, accepted...)
	return w.stateLocked(), nil
}

// RemoveImage drops the photo at index, keeping the order of the rest.
func (w *Wizard) RemoveImage(index int) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkMutableLocked(); err != nil {
		return w.stateLocked(), err
	}
	if index < 0 || index >= len(w.images) {
		return w.stateLocked(), pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no photo at position %d", index))
	}
	images := make([]Image, 0, len(w.images)-1)
	images = append(images, w.images[:index]...)
	images = append(images, w.images[index+1:]...)
	w.images = images
	return w.stateLocked(), nil
}

// Submit sends the form from the Review step. On success the draft is removed
// and the seller is sent to the success path; on failure nothing changes and
// the call may be repeated.
func (w *Wizard) Submit(ctx context.Context) (*backend.SellRequest, error) {
	w.mu.Lock()
	if err := w.checkMutableLocked(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if w.step != StepReview {
		w.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submit is only available on the review step")
	}
	if err := ValidateAll(w.fields); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if w.deps.Submitter == nil {
		w.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sell request submitter not configured")
	}
	sub := backend.SellRequestSubmission{Fields: w.fields.Map()}
	for _, img := range w.images {
		sub.Images = append(sub.Images, img.upload())
	}
	w.submitting = true
	w.mu.Unlock()

	created, err := w.deps.Submitter.SubmitSellRequest(ctx, sub)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.deps.Metrics.IncSubmission(metrics.OutcomeError)
		if w.deps.Logger != nil {
			w.deps.Logger.Error(ctx, "sell request submission failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to submit, please try again")
	}

	w.deps.Metrics.IncSubmission(metrics.OutcomeOK)
	if rmErr := w.deps.Store.Remove(ctx, DraftKey); rmErr != nil && w.deps.Logger != nil {
		w.deps.Logger.Error(ctx, "remove sell car draft", rmErr)
	}
	w.completed = true
	w.deps.Navigator.NavigateTo(w.deps.SuccessPath)
	return created, nil
}

func (w *Wizard) checkMutableLocked() error {
	if w.completed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "sell request already submitted")
	}
	if w.submitting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "submission in progress")
	}
	return nil
}

func (w *Wizard) afterTransitionLocked(ctx context.Context, direction string) {
	w.deps.Metrics.IncTransition(direction)
	w.deps.Navigator.ScrollToTop()
	w.persistLocked(ctx)
}

// persistLocked overwrites the stored draft once the form is identified.
// Write failures are logged and never fail the edit.
func (w *Wizard) persistLocked(ctx context.Context) {
	if !w.fields.Identified() {
		return
	}
	raw, err := encodeDraft(Draft{Fields: w.fields, CurrentStep: w.step})
	if err == nil {
		err = w.deps.Store.Set(ctx, DraftKey, raw)
	}
	if err != nil {
		w.deps.Metrics.IncDraftWrite(metrics.OutcomeError)
		if w.deps.Logger != nil {
			w.deps.Logger.Error(ctx, "save sell car draft", err)
		}
		return
	}
	w.deps.Metrics.IncDraftWrite(metrics.OutcomeOK)
}

func (w *Wizard) stateLocked() State {
	return State{
		Step:         w.step,
		Fields:       w.fields,
		Images:       append([]Image{}, w.images...),
		DraftPending: w.pending != nil,
		Submitting:   w.submitting,
		Completed:    w.completed,
	}
}
