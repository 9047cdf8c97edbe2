package voice_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/providers/voice"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	"github.com/hungrymonkey/restaurant-hours-backend/pkg/config"
)

func fastVapiConfig(baseURL string) *config.VapiConfig {
	return &config.VapiConfig{
		APIKey:        "test-key",
		PhoneNumberID: "phone-1",
		AssistantID:   "assistant-1",
		BaseURL:       baseURL,
		InitialDelay:  0,
		PollInterval:  time.Millisecond,
		MaxAttempts:   5,
		MaxRetries:    3,
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "ten digits", input: "4155551234", want: "+14155551234"},
		{name: "formatted", input: "(415) 555-1234", want: "+14155551234"},
		{name: "eleven digits", input: "14155551234", want: "+14155551234"},
		{name: "already e164", input: "+1 415 555 1234", want: "+14155551234"},
		{name: "too short", input: "555-1234", wantErr: true},
		{name: "too long", input: "+44 20 7946 0958 123", wantErr: true},
		{name: "non us country code", input: "25512345678", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := voice.NormalizePhoneNumber(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, providers.ErrInvalidPhoneNumber)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceCall_Success(t *testing.T) {
	// Arrange
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/call", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "call-123", "status": "queued"})
	}))
	defer server.Close()

	adapter := voice.NewVapiAdapter(fastVapiConfig(server.URL))

	// Act
	callID, err := adapter.PlaceCall(context.Background(), "(415) 555-1234", "verify hours")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "call-123", callID)
	assert.Equal(t, "phone-1", gotBody["phoneNumberId"])
	assert.Equal(t, "assistant-1", gotBody["assistantId"])
	customer := gotBody["customer"].(map[string]any)
	assert.Equal(t, "+14155551234", customer["number"])
}

func TestPlaceCall_InvalidNumber(t *testing.T) {
	adapter := voice.NewVapiAdapter(fastVapiConfig("http://unused"))

	_, err := adapter.PlaceCall(context.Background(), "12345", "verify hours")

	assert.ErrorIs(t, err, providers.ErrInvalidPhoneNumber)
}

func TestPlaceCall_VendorRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	adapter := voice.NewVapiAdapter(fastVapiConfig(server.URL))

	_, err := adapter.PlaceCall(context.Background(), "4155551234", "verify hours")

	assert.ErrorIs(t, err, providers.ErrCallDispatch)
}

func TestWaitForCompletion_Succeeds(t *testing.T) {
	// Call progresses queued -> in-progress -> ended across polls.
	statuses := []string{"queued", "in-progress", "ended"}
	poll := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := statuses[poll]
		if poll < len(statuses)-1 {
			poll++
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "call-123", "status": status})
	}))
	defer server.Close()

	adapter := voice.NewVapiAdapter(fastVapiConfig(server.URL))

	err := adapter.WaitForCompletion(context.Background(), "call-123")

	assert.NoError(t, err)
	assert.Equal(t, 2, poll)
}

func TestWaitForCompletion_FailureExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "call-123", "status": "failed"})
	}))
	defer server.Close()

	adapter := voice.NewVapiAdapter(fastVapiConfig(server.URL))

	err := adapter.WaitForCompletion(context.Background(), "call-123")

	assert.ErrorIs(t, err, providers.ErrCallFailed)
}

func TestWaitForCompletion_TimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "call-123", "status": "in-progress"})
	}))
	defer server.Close()

	adapter := voice.NewVapiAdapter(fastVapiConfig(server.URL))

	err := adapter.WaitForCompletion(context.Background(), "call-123")

	assert.ErrorIs(t, err, providers.ErrCallTimeout)
}

func TestWaitForCompletion_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "call-123", "status": "in-progress"})
	}))
	defer server.Close()

	cfg := fastVapiConfig(server.URL)
	cfg.PollInterval = time.Hour
	adapter := voice.NewVapiAdapter(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := adapter.WaitForCompletion(ctx, "call-123")

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGetAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/call/call-123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "call-123",
			"status": "ended",
			"analysis": map[string]any{
				"structuredData": map[string]any{
					"time_open":   "09:00",
					"time_closed": "22:00",
					"is_open":     true,
				},
				"successEvaluation": true,
			},
		})
	}))
	defer server.Close()

	adapter := voice.NewVapiAdapter(fastVapiConfig(server.URL))

	analysis, err := adapter.GetAnalysis(context.Background(), "call-123")

	assert.NoError(t, err)
	assert.True(t, analysis.SuccessEvaluation)
	open, ok := analysis.StringField(entities.StructuredKeyTimeOpen)
	assert.True(t, ok)
	assert.Equal(t, "09:00", open)
	assert.True(t, analysis.BoolField(entities.StructuredKeyIsOpen))
}

func TestGetAnalysis_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "call-123", "status": "in-progress"})
	}))
	defer server.Close()

	adapter := voice.NewVapiAdapter(fastVapiConfig(server.URL))

	_, err := adapter.GetAnalysis(context.Background(), "call-123")

	assert.ErrorIs(t, err, providers.ErrAnalysisUnavailable)
}
