package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/cardsvc-io/cardctl/internal/constants"
	"github.com/cardsvc-io/cardctl/internal/i18n"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/cardsvc-io/cardctl/pkg/cardclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"

	defaultJSONIndent = "  "
)

// Common static errors used throughout the commands package.
var (
	ErrAPIEndpointRequired = errors.New("API endpoint is required (use --api or 'cardctl config set api <url>')")
	ErrNotLoggedIn         = errors.New("not logged in (use 'cardctl login')")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrInvalidOutputFormat = errors.New("output format must be table, json, or yaml")
)

// Config is the persisted CLI configuration.
type Config struct {
	API               string     `json:"api,omitempty"                 yaml:"api,omitempty"`
	Token             string     `json:"token,omitempty"               yaml:"token,omitempty"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"    yaml:"token_expires_at,omitempty"`
	LastRefreshed     *time.Time `json:"last_refreshed,omitempty"      yaml:"last_refreshed,omitempty"`
	Username          string     `json:"username,omitempty"            yaml:"username,omitempty"`
	Output            string     `json:"output,omitempty"              yaml:"output,omitempty"`
	Lang              string     `json:"lang,omitempty"                yaml:"lang,omitempty"`
	SkipSSLValidation bool       `json:"skip_ssl_validation,omitempty" yaml:"skip_ssl_validation,omitempty"`
}

// configFilePath resolves the config file location, preferring the file viper
// actually loaded.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".cardctl")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

// loadConfig reads the persisted CLI configuration. A missing or unreadable
// file yields an empty config rather than an error.
func loadConfig() *Config {
	config := &Config{}

	path, err := configFilePath()
	if err != nil {
		return config
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the user's home directory
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

// saveConfigStruct writes the CLI configuration back to disk.
func saveConfigStruct(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// buildClient constructs a card API client from flags, environment, and the
// persisted configuration. A previously saved token pre-seeds the session,
// and refreshed tokens are written back through the config persister.
func buildClient() (cardapi.Client, error) {
	config := loadConfig()

	endpoint := viper.GetString("api")
	if endpoint == "" {
		endpoint = config.API
	}

	if endpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	clientConfig := &cardapi.Config{
		APIEndpoint:    endpoint,
		AccessToken:    config.Token,
		SkipTLSVerify:  viper.GetBool("skip_ssl_validation") || config.SkipSSLValidation,
		OnTokenRefresh: NewConfigPersister().UpdateToken,
		UserAgent:      "cardctl/" + cliVersion,
	}

	if config.TokenExpiresAt != nil {
		clientConfig.AccessTokenExpiresAt = *config.TokenExpiresAt
	}

	clientConfig.Interceptors = buildInterceptors(clientConfig)

	return cardclient.New(clientConfig)
}

// buildInterceptors assembles the interceptor chain for CLI-built clients:
// client identification headers always, request/response logging and rolling
// per-endpoint metrics on --verbose.
func buildInterceptors(clientConfig *cardapi.Config) *cardapi.InterceptorChain {
	chain := cardapi.NewInterceptorChain()
	chain.AddRequestInterceptor(cardapi.HeaderInterceptor(map[string]string{
		"X-Client-Name":    "cardctl",
		"X-Client-Version": cliVersion,
	}))

	if viper.GetBool("verbose") {
		logger := &stderrLogger{}
		clientConfig.Logger = logger
		chain.AddRequestInterceptor(cardapi.LoggingInterceptor(logger))
		chain.AddResponseInterceptor(cardapi.LoggingResponseInterceptor(logger))

		collector := cardapi.NewMetricsCollector()
		collector.SetOnChange(func(endpoint string, metrics *cardapi.Metrics) {
			logger.Debug("API Metrics", map[string]interface{}{
				"endpoint":    endpoint,
				"requests":    metrics.TotalRequests,
				"errors":      metrics.TotalErrors,
				"avg_latency": metrics.AverageLatency.String(),
			})
		})
		chain.AddRequestInterceptor(cardapi.MetricsRequestInterceptor(collector))
		chain.AddResponseInterceptor(cardapi.MetricsResponseInterceptor(collector))
	}

	return chain
}

// commandContext returns a context cancelled by Ctrl-C, so an in-flight call
// is aborted instead of its response being applied after the user gave up.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// stderrLogger writes structured log lines to stderr for --verbose runs.
type stderrLogger struct{}

func (l *stderrLogger) Debug(msg string, fields map[string]interface{}) { l.log("DEBUG", msg, fields) }
func (l *stderrLogger) Info(msg string, fields map[string]interface{})  { l.log("INFO", msg, fields) }
func (l *stderrLogger) Warn(msg string, fields map[string]interface{})  { l.log("WARN", msg, fields) }
func (l *stderrLogger) Error(msg string, fields map[string]interface{}) { l.log("ERROR", msg, fields) }

func (l *stderrLogger) log(level, msg string, fields map[string]interface{}) {
	fmt.Fprintf(os.Stderr, "[%s] %s", level, msg)

	for key, value := range fields {
		fmt.Fprintf(os.Stderr, " %s=%v", key, value)
	}

	fmt.Fprintln(os.Stderr)
}

// messages returns the shared message catalog.
var messages = sync.OnceValue(func() *i18n.Catalog {
	catalog, err := i18n.Load()
	if err != nil {
		// The catalogs are embedded; a parse failure is a build defect.
		panic(err)
	}

	return catalog
})

func language() string {
	if lang := viper.GetString("lang"); lang != "" {
		return lang
	}

	if lang := loadConfig().Lang; lang != "" {
		return lang
	}

	return i18n.DefaultLanguage
}

// presentError translates an API failure for display. Rate-limited failures
// optionally render a live countdown for the server's suggested wait before
// returning; the action is never retried automatically.
func presentError(err error, wait bool) error {
	apiErr := &cardapi.APIError{}
	if !errors.As(err, &apiErr) {
		return err
	}

	message := messages().Message(language(), apiErr)

	if cardapi.IsRateLimited(err) && wait {
		fmt.Fprintln(os.Stderr, message)
		rateLimitCountdown(cardapi.RetryAfterSeconds(err, constants.DefaultRetryAfterSeconds))

		return fmt.Errorf("rate limited: %w", err)
	}

	if apiErr.RequestID != "" {
		return fmt.Errorf("%s (request id: %s)", message, apiErr.RequestID)
	}

	return errors.New(message)
}

// rateLimitCountdown renders a ticking countdown to stderr.
func rateLimitCountdown(seconds int) {
	for remaining := seconds; remaining > 0; remaining-- {
		fmt.Fprintf(os.Stderr, "\rRetry available in %3ds", remaining)
		time.Sleep(time.Second)
	}

	fmt.Fprint(os.Stderr, "\rYou can retry now.      \n")
}

// outputFormat resolves the effective output format.
func outputFormat() string {
	if format := viper.GetString("output"); format != "" {
		return format
	}

	return OutputFormatTable
}

// renderStructured prints v as JSON or YAML.
func renderStructured(v interface{}, format string) error {
	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", defaultJSONIndent)

		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	case OutputFormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}

		fmt.Print(string(data))
	default:
		return ErrInvalidOutputFormat
	}

	return nil
}
