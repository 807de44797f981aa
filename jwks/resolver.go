// Package jwks resolves federated signing keys from an identity provider's
// JSON Web Key Set endpoint.
//
// Keys are cached with a TTL and a capacity bound; cache misses trigger a
// rate-limited, coalesced refetch of the whole document. An unreachable
// provider or an absent key is an error — verification fails closed, never
// falling back to an unverified token.
package jwks

import (
	"context"
	"crypto"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ridewise/carpool-auth/errors"
	"github.com/ridewise/carpool-auth/logger"
)

// Resolver fetches and caches public signing keys by key ID.
// It is safe for concurrent use.
type Resolver struct {
	cfg     Config
	limiter *rate.Limiter
	group   singleflight.Group
	log     *logger.Logger

	mu      sync.RWMutex
	jwksURL string
	keys    map[string]cachedKey
}

type cachedKey struct {
	key       crypto.PublicKey
	fetchedAt time.Time
}

// NewResolver creates a key resolver from configuration.
func NewResolver(cfg *Config, log *logger.Logger) (*Resolver, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		cfg:     *cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.RefetchInterval), cfg.RefetchBurst),
		log:     log.WithComponent("jwks"),
		jwksURL: cfg.JWKSURL,
		keys:    make(map[string]cachedKey),
	}, nil
}

// Key returns the public key for the given key ID, fetching the provider's
// key set on a cache miss. Implements token.KeyResolver.
func (r *Resolver) Key(ctx context.Context, kid string) (crypto.PublicKey, error) {
	if key, ok := r.cached(kid); ok {
		return key, nil
	}

	// Coalesce concurrent misses into one outbound fetch.
	_, err, _ := r.group.Do("refresh", func() (interface{}, error) {
		// A racer may have refreshed the cache while we waited on the group.
		if _, ok := r.cached(kid); ok {
			return nil, nil
		}
		if !r.limiter.Allow() {
			return nil, errors.KeyResolutionFailed(stderrors.New("jwks refetch rate limit exceeded"))
		}
		return nil, r.refresh(ctx)
	})
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, errors.KeyResolutionFailed(err)
	}

	if key, ok := r.cached(kid); ok {
		return key, nil
	}
	return nil, errors.KeyResolutionFailed(fmt.Errorf("key %q not found in JWKS", kid))
}

// cached returns a fresh cache entry for kid, if present.
func (r *Resolver) cached(kid string) (crypto.PublicKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.keys[kid]
	if !ok || time.Since(entry.fetchedAt) > r.cfg.CacheTTL {
		return nil, false
	}
	return entry.key, true
}

// refresh fetches the JWKS document and replaces the cached keys.
func (r *Resolver) refresh(ctx context.Context) error {
	url, err := r.endpoint(ctx)
	if err != nil {
		return err
	}

	var doc jwksDoc
	if err := r.getJSON(ctx, url, &doc); err != nil {
		return fmt.Errorf("fetch JWKS: %w", err)
	}

	now := time.Now()
	fresh := make(map[string]cachedKey, len(doc.Keys))
	for i := range doc.Keys {
		k := doc.Keys[i]
		if k.Use != "sig" && k.Use != "" {
			continue
		}
		pub, kerr := k.publicKey()
		if kerr != nil {
			r.log.Warn("skipping unparsable JWK", logger.Fields(logger.FieldKeyID, k.Kid, logger.FieldError, kerr.Error()))
			continue
		}
		fresh[k.Kid] = cachedKey{key: pub, fetchedAt: now}
	}

	r.mu.Lock()
	// Carry over still-fresh entries the new document no longer lists, so a
	// provider mid-rotation does not invalidate tokens signed moments ago.
	for kid, entry := range r.keys {
		if _, ok := fresh[kid]; !ok && now.Sub(entry.fetchedAt) <= r.cfg.CacheTTL {
			fresh[kid] = entry
		}
	}
	for len(fresh) > r.cfg.MaxKeys {
		evictOldest(fresh)
	}
	r.keys = fresh
	r.mu.Unlock()

	r.log.Debug("JWKS refreshed", logger.Fields("keys", len(fresh)))
	return nil
}

// endpoint returns the JWKS URL, discovering it from the issuer's
// well-known OpenID configuration on first use if not configured.
func (r *Resolver) endpoint(ctx context.Context) (string, error) {
	r.mu.RLock()
	url := r.jwksURL
	r.mu.RUnlock()
	if url != "" {
		return url, nil
	}

	wellKnown := strings.TrimRight(r.cfg.Issuer, "/") + "/.well-known/openid-configuration"
	var disco struct {
		JWKSUri string `json:"jwks_uri"`
	}
	if err := r.getJSON(ctx, wellKnown, &disco); err != nil {
		return "", fmt.Errorf("discovery failed for %s: %w", r.cfg.Issuer, err)
	}
	if disco.JWKSUri == "" {
		return "", stderrors.New("discovery document missing jwks_uri")
	}

	r.mu.Lock()
	r.jwksURL = disco.JWKSUri
	r.mu.Unlock()
	return disco.JWKSUri, nil
}

func (r *Resolver) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := r.cfg.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // Error on close is safe to ignore for read operations

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func evictOldest(keys map[string]cachedKey) {
	var oldestKid string
	var oldest time.Time
	first := true
	for kid, entry := range keys {
		if first || entry.fetchedAt.Before(oldest) {
			oldestKid, oldest, first = kid, entry.fetchedAt, false
		}
	}
	delete(keys, oldestKid)
}
