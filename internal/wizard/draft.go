package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joramcars/dealership-web/pkg/kv"
)

// DraftKey is the store key holding the in-progress form.
const DraftKey = "sell_car_draft"

// Draft is the persisted snapshot of the form. Photos are not part of it.
type Draft struct {
	Fields      Fields `json:"fields"`
	CurrentStep Step   `json:"currentStep"`
}

func encodeDraft(d Draft) (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal draft: %w", err)
	}
	return string(raw), nil
}

// readDraft loads the stored draft. A missing, unreadable or out-of-range
// draft is reported as absent; err is set only for store failures.
func readDraft(ctx context.Context, store kv.Store) (*Draft, error) {
	raw, err := store.Get(ctx, DraftKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, nil
	}
	if !d.CurrentStep.Valid() {
		return nil, nil
	}
	return &d, nil
}
