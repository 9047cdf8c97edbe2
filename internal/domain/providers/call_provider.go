package providers

import (
	"context"
	"errors"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
)

// Call gateway failure modes. The orchestrator maps all of these to a
// negative verification outcome; none are retried beyond the gateway's own
// retry budget.
var (
	// ErrInvalidPhoneNumber means the number could not be normalized to
	// 11 digits. Not retried.
	ErrInvalidPhoneNumber = errors.New("phone number must be 10 or 11 digits")

	// ErrCallDispatch means the vendor rejected call placement.
	ErrCallDispatch = errors.New("vendor rejected call placement")

	// ErrCallFailed means the vendor reported a terminal failure status
	// more times than the retry budget allows.
	ErrCallFailed = errors.New("call failed")

	// ErrCallTimeout means status polling exhausted its attempt budget.
	ErrCallTimeout = errors.New("timed out waiting for call completion")

	// ErrAnalysisUnavailable means the vendor has no analysis yet.
	ErrAnalysisUnavailable = errors.New("call analysis not available")
)

// CallProvider abstracts the voice-AI vendor's call lifecycle.
type CallProvider interface {
	// PlaceCall normalizes phoneNumber and asks the vendor to start an
	// outbound call, returning the vendor-assigned call id.
	PlaceCall(ctx context.Context, phoneNumber, message string) (string, error)

	// GetStatus returns the call's current normalized status.
	GetStatus(ctx context.Context, callID string) (entities.CallStatus, error)

	// GetAnalysis returns the structured result of a completed call.
	GetAnalysis(ctx context.Context, callID string) (*entities.CallAnalysis, error)

	// WaitForCompletion blocks until the call reaches a terminal-success
	// status, returning ErrCallFailed, ErrCallTimeout, or ctx.Err()
	// otherwise.
	WaitForCompletion(ctx context.Context, callID string) error
}
