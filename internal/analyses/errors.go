package analyses

import (
	"context"
	"errors"

	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/shared/metrics"
)

var (
	// ErrInputMissing is returned when the resume or the job description is absent.
	ErrInputMissing = errors.New("missing resume file or job description")
	// ErrTooLarge is returned when the resume exceeds the configured size limit.
	ErrTooLarge = errors.New("resume exceeds size limit")
	// ErrDocumentNotFound is returned when a resume key does not resolve to a stored object.
	ErrDocumentNotFound = errors.New("resume document not found")
)

// Outcome classifies err for metrics and request logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrInputMissing), errors.Is(err, ErrTooLarge):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrDocumentNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, extract.ErrUnsupportedType):
		return metrics.OutcomeUnsupported
	case errors.Is(err, extract.ErrExtraction):
		return metrics.OutcomeExtraction
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
