package voice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
)

// MockAdapter fakes the voice vendor for local development. Every call
// completes immediately with canned hours.
type MockAdapter struct {
	mu    sync.Mutex
	calls map[string]string
}

// NewMockAdapter creates a mock call provider.
func NewMockAdapter() providers.CallProvider {
	return &MockAdapter{calls: make(map[string]string)}
}

// PlaceCall validates the number and records a fake call.
func (m *MockAdapter) PlaceCall(ctx context.Context, phoneNumber, message string) (string, error) {
	normalized, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return "", err
	}

	id := fmt.Sprintf("mock-%d", time.Now().UnixNano())
	m.mu.Lock()
	m.calls[id] = normalized
	m.mu.Unlock()
	return id, nil
}

// GetStatus reports every known call as completed.
func (m *MockAdapter) GetStatus(ctx context.Context, callID string) (entities.CallStatus, error) {
	m.mu.Lock()
	_, ok := m.calls[callID]
	m.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown call: %s", callID)
	}
	return entities.CallStatusEnded, nil
}

// GetAnalysis returns canned business hours.
func (m *MockAdapter) GetAnalysis(ctx context.Context, callID string) (*entities.CallAnalysis, error) {
	m.mu.Lock()
	_, ok := m.calls[callID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown call: %s", callID)
	}

	return &entities.CallAnalysis{
		StructuredData: map[string]any{
			entities.StructuredKeyTimeOpen:   "09:00",
			entities.StructuredKeyTimeClosed: "21:00",
			entities.StructuredKeyIsOpen:     true,
		},
		SuccessEvaluation: true,
	}, nil
}

// WaitForCompletion returns immediately; mock calls finish instantly.
func (m *MockAdapter) WaitForCompletion(ctx context.Context, callID string) error {
	m.mu.Lock()
	_, ok := m.calls[callID]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown call: %s", callID)
	}
	return nil
}
