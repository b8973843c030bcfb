// Package i18n resolves error codes and UI labels to human-readable
// messages via a flat key lookup with string interpolation.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/cardsvc-io/cardctl/internal/constants"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// DefaultLanguage is the fallback language for missing translations.
const DefaultLanguage = "en"

// Catalog maps language → flat message key → template. Templates use
// {placeholder} interpolation.
type Catalog struct {
	messages map[string]map[string]string
}

// Load parses the embedded message catalogs.
func Load() (*Catalog, error) {
	entries, err := fs.ReadDir(catalogFS, "catalogs")
	if err != nil {
		return nil, fmt.Errorf("reading catalogs: %w", err)
	}

	catalog := &Catalog{messages: make(map[string]map[string]string)}

	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), ".yaml")

		data, err := catalogFS.ReadFile("catalogs/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", entry.Name(), err)
		}

		table := make(map[string]string)

		err = yaml.Unmarshal(data, &table)
		if err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", entry.Name(), err)
		}

		catalog.messages[lang] = table
	}

	return catalog, nil
}

// Languages lists the loaded catalog languages.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.messages))
	for lang := range c.messages {
		langs = append(langs, lang)
	}

	return langs
}

// T resolves a key in the given language, falling back to the default
// language. The second return reports whether a translation was found.
func (c *Catalog) T(lang, key string, args map[string]string) (string, bool) {
	for _, candidate := range []string{lang, DefaultLanguage} {
		if table, ok := c.messages[candidate]; ok {
			if template, ok := table[key]; ok {
				return interpolate(template, args), true
			}
		}
	}

	return key, false
}

// Message renders an API error for display: the error's machine code is
// translated when a catalog entry exists, otherwise the raw server-supplied
// message is shown, and a generic message covers a missing one. A rate-limit
// error without a server hint falls back to the default wait so the template
// never renders a bare placeholder.
func (c *Catalog) Message(lang string, apiErr *cardapi.APIError) string {
	args := map[string]string{
		"code":    apiErr.Code,
		"seconds": fmt.Sprintf("%d", cardapi.RetryAfterSeconds(apiErr, constants.DefaultRetryAfterSeconds)),
	}

	if msg, ok := c.T(lang, apiErr.Code, args); ok {
		return msg
	}

	if apiErr.Message != "" {
		return apiErr.Message
	}

	msg, _ := c.T(lang, "GENERIC_ERROR", args)

	return msg
}

// StatusLabel renders a card request status for display, falling back to the
// raw status value.
func (c *Catalog) StatusLabel(lang string, status cardapi.Status) string {
	if label, ok := c.T(lang, "status."+string(status), nil); ok {
		return label
	}

	return string(status)
}

func interpolate(template string, args map[string]string) string {
	result := template
	for key, value := range args {
		result = strings.ReplaceAll(result, "{"+key+"}", value)
	}

	return result
}
