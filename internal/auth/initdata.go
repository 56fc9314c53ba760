// Package auth verifies Telegram WebApp identities and issues the
// session tokens the lobby API accepts.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	maxInitDataAge = time.Hour
	maxClockSkew   = 5 * time.Minute
)

var (
	ErrInvalidInitData = errors.New("invalid init data")
	ErrExpiredInitData = errors.New("init data expired")
	ErrInvalidToken    = errors.New("invalid token")
)

// WebAppUser is the user object Telegram embeds in initData.
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// Verifier checks WebApp initData signatures against the bot token.
// Verified payloads are cached for the rest of their freshness window.
type Verifier struct {
	secret [sha256.Size]byte // sha256 of the bot token
	cache  *ristretto.Cache[string, *WebAppUser]
}

// NewVerifier creates a verifier. A nil cache disables caching.
func NewVerifier(botToken string, cache *ristretto.Cache[string, *WebAppUser]) *Verifier {
	return &Verifier{
		secret: sha256.Sum256([]byte(botToken)),
		cache:  cache,
	}
}

// NewCache builds a cache for verified initData payloads.
func NewCache() (*ristretto.Cache[string, *WebAppUser], error) {
	return ristretto.NewCache(&ristretto.Config[string, *WebAppUser]{
		NumCounters: 1e5,
		MaxCost:     1e4,
		BufferItems: 64,
	})
}

// Verify checks the signature and freshness of a raw initData query
// string and returns the user embedded in it.
func (v *Verifier) Verify(initData string) (*WebAppUser, error) {
	if v.cache != nil {
		if u, found := v.cache.Get(initData); found {
			return u, nil
		}
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInvalidInitData
	}

	provided := values.Get("hash")
	if provided == "" {
		return nil, ErrInvalidInitData
	}
	values.Del("hash")

	lines := make([]string, 0, len(values))
	for k, vs := range values {
		lines = append(lines, k+"="+strings.Join(vs, ""))
	}
	sort.Strings(lines)

	mac := hmac.New(sha256.New, v.secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))

	decoded, err := hex.DecodeString(provided)
	if err != nil {
		return nil, ErrInvalidInitData
	}
	if !hmac.Equal(mac.Sum(nil), decoded) {
		return nil, ErrInvalidInitData
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, ErrInvalidInitData
	}
	now := time.Now()
	age := now.Unix() - authDate
	if age > int64(maxInitDataAge.Seconds()) || -age > int64(maxClockSkew.Seconds()) {
		return nil, ErrExpiredInitData
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, ErrInvalidInitData
	}

	if v.cache != nil {
		// Cache no longer than the payload stays fresh.
		ttl := time.Unix(authDate, 0).Add(maxInitDataAge).Sub(now)
		if ttl > 0 {
			v.cache.SetWithTTL(initData, &user, 1, ttl)
		}
	}
	return &user, nil
}
