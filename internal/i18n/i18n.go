// Package i18n translates bot replies into the user's language using
// the public Google Translate endpoint. Translations are cached;
// any failure falls back to the original English text.
package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Supported lists the languages replies are translated into. Anything
// else passes through as English.
var Supported = []string{"en", "ar", "es", "fr", "ru", "zh"}

const defaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// Translator renders English bot replies in a target language.
type Translator struct {
	endpoint string
	client   *http.Client
	cache    *ristretto.Cache[string, string]
}

// New creates a translator. A nil cache disables caching.
func New(cache *ristretto.Cache[string, string]) *Translator {
	return &Translator{
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		cache:    cache,
	}
}

// NewCache builds a translation cache sized for chat traffic.
func NewCache() (*ristretto.Cache[string, string], error) {
	return ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1e6,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
}

// Normalize trims a Telegram language code to its base form, so
// "en-US" becomes "en". Empty codes default to English.
func Normalize(lang string) string {
	if lang == "" {
		return "en"
	}
	lang = strings.ToLower(lang)
	if len(lang) > 2 {
		lang = lang[:2]
	}
	return lang
}

// IsSupported reports whether replies are translated for lang.
func IsSupported(lang string) bool {
	return slices.Contains(Supported, lang)
}

// Translate renders text in the user's language. English input and
// unsupported languages pass through untouched, as does anything the
// endpoint fails to translate.
func (t *Translator) Translate(ctx context.Context, text, lang string) string {
	lang = Normalize(lang)
	if text == "" || lang == "en" || !IsSupported(lang) {
		return text
	}

	cacheKey := lang + ":" + text
	if t.cache != nil {
		if cached, found := t.cache.Get(cacheKey); found {
			return cached
		}
	}

	translated, err := t.fetch(ctx, text, lang)
	if err != nil || translated == "" {
		return text
	}

	if t.cache != nil {
		t.cache.Set(cacheKey, translated, int64(len(translated)))
	}
	return translated
}

// fetch calls the gtx endpoint for a single string.
func (t *Translator) fetch(ctx context.Context, text, lang string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "en")
	q.Set("tl", lang)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	return parseResponse(body)
}

// parseResponse digs the translated segments out of the nested-array
// payload the endpoint returns: [[["Hola","Hello",...],...],...]
func parseResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", errors.New("translate: empty payload")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", errors.New("translate: unexpected payload shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	return b.String(), nil
}
