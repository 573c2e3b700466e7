package driven

import (
	"context"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// Classifier describes a sanitized document text.
//
// Any failure, whether transport, timeout or an unparseable response,
// is reported as an error wrapping domain.ErrClassificationUnavailable.
type Classifier interface {
	Classify(ctx context.Context, text string) (*domain.Classification, error)
}
