package cardclient

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cardsvc-io/cardctl/internal/client"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
)

// Static errors for err113 compliance.
var (
	ErrSkipTLSOnlyInDev = errors.New("skipTLS is only allowed in development environments")
)

// New creates a card API client from config, normalizing the endpoint.
func New(config *cardapi.Config) (cardapi.Client, error) {
	if config == nil {
		return nil, cardapi.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, cardapi.ErrAPIEndpointRequired
	}

	apiEndpoint := strings.TrimSuffix(config.APIEndpoint, "/")
	if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
		apiEndpoint = "https://" + apiEndpoint
	}

	config.APIEndpoint = apiEndpoint

	if config.SkipTLSVerify && !isDevelopmentEnvironment() {
		return nil, fmt.Errorf("%w (set CARDCTL_DEV_MODE=true)", ErrSkipTLSOnlyInDev)
	}

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// isDevelopmentEnvironment checks if we're in a development environment.
func isDevelopmentEnvironment() bool {
	devMode := os.Getenv("CARDCTL_DEV_MODE")

	return devMode == "true" || devMode == "1"
}
