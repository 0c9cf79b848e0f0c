package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/joramcars/dealership-web/api/middleware"
	"github.com/joramcars/dealership-web/api/responses"
	"github.com/joramcars/dealership-web/api/validators"
	"github.com/joramcars/dealership-web/api/views"
	"github.com/joramcars/dealership-web/internal/wizard"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/logger"
)

const sellImagesField = "images"

// WizardService hands out the live sell-car wizard of a visitor.
type WizardService interface {
	Mount(ctx context.Context, visitorID string) (*wizard.Wizard, *wizard.Recorder, error)
	Live(ctx context.Context, visitorID string) (*wizard.Wizard, *wizard.Recorder, error)
}

// SellDeps are shared by the sell-car handlers.
type SellDeps struct {
	Wizards        WizardService
	Renderer       *views.Renderer
	Logger         *logger.Logger
	MaxUploadBytes int64
}

type sellPayload struct {
	State   wizard.State   `json:"state"`
	Draft   *wizard.Draft  `json:"draft,omitempty"`
	Effects wizard.Effects `json:"effects"`
}

func newSellPayload(w *wizard.Wizard, rec *wizard.Recorder) sellPayload {
	p := sellPayload{State: w.State(), Effects: rec.Drain()}
	if draft, ok := w.PendingDraft(); ok {
		p.Draft = &draft
	}
	return p
}

// sellAction runs fn against a wizard and returns its error.
type sellAction func(ctx context.Context, w *wizard.Wizard, r *http.Request) error

func (d SellDeps) live(r *http.Request, mount bool) (*wizard.Wizard, *wizard.Recorder, error) {
	visitorID := middleware.VisitorIDFromContext(r.Context())
	if mount {
		return d.Wizards.Mount(r.Context(), visitorID)
	}
	return d.Wizards.Live(r.Context(), visitorID)
}

// SellJSON wraps a wizard action as a JSON endpoint. Every response carries
// the state and the navigation effects the action produced.
func SellJSON(deps SellDeps, mount bool, action sellAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		wz, rec, err := deps.live(r, mount)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		if action != nil {
			if err := action(ctx, wz, r); err != nil {
				rec.Drain()
				responses.WriteError(ctx, deps.Logger, w, err)
				return
			}
		}
		responses.WriteSuccess(w, newSellPayload(wz, rec))
	}
}

// SellHTML wraps a wizard action as a form post that re-renders the page, or
// follows the navigation the action requested.
func SellHTML(deps SellDeps, mount bool, action sellAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		wz, rec, err := deps.live(r, mount)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}

		status := http.StatusOK
		var actionErr error
		if action != nil {
			actionErr = action(ctx, wz, r)
		}
		effects := rec.Drain()
		if actionErr == nil && effects.NavigateTo != "" {
			http.Redirect(w, r, effects.NavigateTo, http.StatusSeeOther)
			return
		}

		page := views.NewSellPage(wz.State(), nil)
		if draft, ok := wz.PendingDraft(); ok {
			page.Draft = &draft
		}
		if actionErr != nil {
			code, envelope := responses.ErrorPayload(actionErr)
			status = code
			page.Error = envelope.Error.Message
			if details, ok := envelope.Error.Details.(map[string]string); ok {
				page.FieldErrors = details
			}
			if deps.Logger != nil && code >= http.StatusInternalServerError {
				deps.Logger.Error(ctx, "sell.action_failed", actionErr)
			}
		}
		if err := deps.Renderer.Render(w, status, views.PageSell, page); err != nil {
			responses.WriteError(ctx, deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render sell page"))
		}
	}
}

// SellResume loads the stored draft.
func SellResume(ctx context.Context, w *wizard.Wizard, _ *http.Request) error {
	_, err := w.Resume(ctx)
	return err
}

// SellDiscard declines the stored draft.
func SellDiscard(_ context.Context, w *wizard.Wizard, _ *http.Request) error {
	w.Discard()
	return nil
}

type sellFieldsRequest struct {
	Fields map[string]string `json:"fields" validate:"required"`
}

// SellFieldsJSON merges a JSON field patch.
func SellFieldsJSON(ctx context.Context, w *wizard.Wizard, r *http.Request) error {
	var body sellFieldsRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	_, err := w.SetFields(ctx, body.Fields)
	return err
}

func SellNext(ctx context.Context, w *wizard.Wizard, _ *http.Request) error {
	_, err := w.Next(ctx)
	return err
}

func SellPrevious(ctx context.Context, w *wizard.Wizard, _ *http.Request) error {
	_, err := w.Previous(ctx)
	return err
}

// SellStepForm merges the posted form fields, then moves in the posted
// direction. Fields are saved even when the move is refused.
func SellStepForm(ctx context.Context, w *wizard.Wizard, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form")
	}
	patch := map[string]string{}
	for _, name := range wizard.FieldNames() {
		if values, ok := r.PostForm[name]; ok && len(values) > 0 {
			patch[name] = values[0]
		}
	}
	if len(patch) > 0 {
		if _, err := w.SetFields(ctx, patch); err != nil {
			return err
		}
	}
	switch r.PostForm.Get("direction") {
	case "next":
		_, err := w.Next(ctx)
		return err
	case "previous":
		_, err := w.Previous(ctx)
		return err
	}
	return nil
}

// SellAddImages reads the multipart "images" files.
func SellAddImages(maxBytes int64) sellAction {
	return func(_ context.Context, w *wizard.Wizard, r *http.Request) error {
		uploads, err := readUploads(r, maxBytes)
		if err != nil {
			return err
		}
		_, err = w.AddImages(uploads)
		return err
	}
}

func SellRemoveImage(_ context.Context, w *wizard.Wizard, r *http.Request) error {
	index, err := validators.PathInt(r, "index")
	if err != nil {
		return err
	}
	_, err = w.RemoveImage(index)
	return err
}

func SellSubmit(ctx context.Context, w *wizard.Wizard, _ *http.Request) error {
	_, err := w.Submit(ctx)
	return err
}

func readUploads(r *http.Request, maxBytes int64) ([]wizard.Upload, error) {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "photos are too large or the upload is malformed")
	}
	headers := r.MultipartForm.File[sellImagesField]
	if len(headers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "choose at least one photo")
	}
	uploads := make([]wizard.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read photo")
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read photo")
		}
		uploads = append(uploads, wizard.Upload{Filename: header.Filename, Data: data})
	}
	return uploads, nil
}
