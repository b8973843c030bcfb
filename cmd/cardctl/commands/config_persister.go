package commands

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// ConfigPersister writes refreshed access tokens back to the CLI config so a
// later invocation can pre-seed its session.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateToken persists a new access token and its expiry. Failures are
// reported on stderr but never fail the request that triggered the refresh.
func (p *ConfigPersister) UpdateToken(token string, expiresAt time.Time) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	config.Token = token

	if expiresAt.IsZero() {
		config.TokenExpiresAt = nil
	} else {
		config.TokenExpiresAt = &expiresAt
	}

	now := time.Now()
	config.LastRefreshed = &now

	if err := saveConfigStruct(config); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", err)
	}
}
