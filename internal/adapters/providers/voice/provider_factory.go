package voice

import (
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	"github.com/hungrymonkey/restaurant-hours-backend/pkg/config"
)

// NewCallProvider picks the call provider from configuration. An unset API
// key always yields the mock so dev environments never dial real numbers.
func NewCallProvider(cfg *config.VapiConfig) providers.CallProvider {
	if cfg.APIKey == "" || cfg.Provider == "mock" {
		return NewMockAdapter()
	}
	return NewVapiAdapter(cfg)
}
