package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	"github.com/hungrymonkey/restaurant-hours-backend/pkg/config"
)

var e164US = regexp.MustCompile(`^\+1\d{10}$`)

// NormalizePhoneNumber converts a free-form US phone number to E.164.
// Ten-digit numbers get a leading country code; anything that does not end
// up as +1 plus ten digits is rejected.
func NormalizePhoneNumber(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	number := digits.String()
	if len(number) == 10 {
		number = "1" + number
	}
	if len(number) != 11 {
		return "", fmt.Errorf("%w: got %q", providers.ErrInvalidPhoneNumber, raw)
	}

	number = "+" + number
	if !e164US.MatchString(number) {
		return "", fmt.Errorf("%w: got %q", providers.ErrInvalidPhoneNumber, raw)
	}

	return number, nil
}

// VapiAdapter implements CallProvider against the VAPI REST API
type VapiAdapter struct {
	cfg        *config.VapiConfig
	httpClient *http.Client
	baseURL    string
}

// Ensure VapiAdapter implements CallProvider
var _ providers.CallProvider = (*VapiAdapter)(nil)

// NewVapiAdapter creates a new VAPI call adapter
func NewVapiAdapter(cfg *config.VapiConfig) *VapiAdapter {
	return &VapiAdapter{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
	}
}

type vapiCallRequest struct {
	PhoneNumberID string       `json:"phoneNumberId"`
	AssistantID   string       `json:"assistantId"`
	Customer      vapiCustomer `json:"customer"`
}

type vapiCustomer struct {
	Number string `json:"number"`
}

type vapiCallResponse struct {
	ID       string               `json:"id"`
	Status   string               `json:"status"`
	Analysis *entities.CallAnalysis `json:"analysis,omitempty"`
}

// PlaceCall starts an outbound call to the given number
func (a *VapiAdapter) PlaceCall(ctx context.Context, phoneNumber, message string) (string, error) {
	normalized, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return "", err
	}

	payload := vapiCallRequest{
		PhoneNumberID: a.cfg.PhoneNumberID,
		AssistantID:   a.cfg.AssistantID,
		Customer:      vapiCustomer{Number: normalized},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode call request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/call", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to build call request: %w", err)
	}
	a.addHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", providers.ErrCallDispatch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: status %d", providers.ErrCallDispatch, resp.StatusCode)
	}

	var result vapiCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode call response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("%w: response missing call id", providers.ErrCallDispatch)
	}

	log.Debug().Str("call_id", result.ID).Str("number", normalized).Msg("call placed")
	return result.ID, nil
}

func (a *VapiAdapter) getCall(ctx context.Context, callID string) (*vapiCallResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/call/"+callID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}
	a.addHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch call %s: %w", callID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vapi api error for call %s: status %d", callID, resp.StatusCode)
	}

	var result vapiCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode call %s: %w", callID, err)
	}
	return &result, nil
}

// GetStatus returns the call's current status
func (a *VapiAdapter) GetStatus(ctx context.Context, callID string) (entities.CallStatus, error) {
	call, err := a.getCall(ctx, callID)
	if err != nil {
		return "", err
	}
	return entities.CallStatus(call.Status), nil
}

// GetAnalysis returns the structured result of a completed call
func (a *VapiAdapter) GetAnalysis(ctx context.Context, callID string) (*entities.CallAnalysis, error) {
	call, err := a.getCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	if call.Analysis == nil {
		return nil, fmt.Errorf("%w: call %s", providers.ErrAnalysisUnavailable, callID)
	}
	return call.Analysis, nil
}

// WaitForCompletion polls until the call ends. Transient vendor errors and
// terminal-failure statuses consume the retry budget; exhausting either the
// budget or the attempt count ends the wait.
func (a *VapiAdapter) WaitForCompletion(ctx context.Context, callID string) error {
	if err := sleepCtx(ctx, a.cfg.InitialDelay); err != nil {
		return err
	}

	retries := 0
	for attempt := 0; attempt < a.cfg.MaxAttempts; attempt++ {
		status, err := a.GetStatus(ctx, callID)
		if err != nil {
			retries++
			log.Warn().Err(err).Str("call_id", callID).Int("retries", retries).Msg("status poll failed")
			if retries >= a.cfg.MaxRetries {
				return fmt.Errorf("%w: %v", providers.ErrCallFailed, err)
			}
		} else if status.IsTerminalSuccess() {
			return nil
		} else if status.IsTerminalFailure() {
			retries++
			log.Warn().Str("call_id", callID).Str("status", string(status)).Int("retries", retries).Msg("call reported failure")
			if retries >= a.cfg.MaxRetries {
				return fmt.Errorf("%w: status %s", providers.ErrCallFailed, status)
			}
		}

		if err := sleepCtx(ctx, a.cfg.PollInterval); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: call %s", providers.ErrCallTimeout, callID)
}

func (a *VapiAdapter) addHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
