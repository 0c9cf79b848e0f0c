package wizard

import (
	"context"
	"strings"

	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/kv"
	"github.com/joramcars/dealership-web/pkg/logger"
	"github.com/joramcars/dealership-web/pkg/metrics"
)

// ServiceParams wires the wizard service.
type ServiceParams struct {
	Store       kv.Backend
	Submitter   Submitter
	Registry    *Registry
	Logger      *logger.Logger
	Metrics     *metrics.WizardMetrics
	SuccessPath string
}

// Service mounts and looks up the live wizard of each visitor.
type Service struct {
	params ServiceParams
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wizard store is required")
	}
	if params.Submitter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wizard submitter is required")
	}
	if params.Registry == nil {
		params.Registry = NewRegistry(DefaultIdleTTL)
	}
	return &Service{params: params}, nil
}

// Mount starts a new wizard for the visitor, replacing any live one. This is
// what loading the sell page does.
func (s *Service) Mount(ctx context.Context, visitorID string) (*Wizard, *Recorder, error) {
	id := strings.TrimSpace(visitorID)
	if id == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	rec := &Recorder{}
	w := Mount(ctx, Deps{
		Store:       kv.ForVisitor(s.params.Store, id),
		Navigator:   rec,
		Submitter:   s.params.Submitter,
		Logger:      s.params.Logger,
		Metrics:     s.params.Metrics,
		SuccessPath: s.params.SuccessPath,
	})
	s.params.Registry.Put(id, w, rec)
	return w, rec, nil
}

// Live returns the visitor's live wizard, mounting one when there is none or
// the previous one already submitted.
func (s *Service) Live(ctx context.Context, visitorID string) (*Wizard, *Recorder, error) {
	if w, rec, ok := s.params.Registry.Get(strings.TrimSpace(visitorID)); ok && !w.State().Completed {
		return w, rec, nil
	}
	return s.Mount(ctx, visitorID)
}
