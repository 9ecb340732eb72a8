package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrKeyNotFound is returned when no signing key matches a token's kid.
var ErrKeyNotFound = errors.New("jwks: key not found")

const (
	defaultRefreshInterval = 15 * time.Minute
	// minMissRefresh bounds how often an unknown kid may force a refetch.
	minMissRefresh = 30 * time.Second
)

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeySource resolves a signing key by its kid header.
type KeySource interface {
	Get(kid string) (*rsa.PublicKey, error)
}

var _ KeySource = (*JWKS)(nil)

// JWKS keeps the identity provider's RSA signing keys in memory and
// refetches them periodically until Close.
type JWKS struct {
	url    string
	client *http.Client

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	lastFetched time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewJWKS fetches the key set once and then every refreshInterval
// (15m when zero).
func NewJWKS(url string, refreshInterval time.Duration) (*JWKS, error) {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &JWKS{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		keys:   map[string]*rsa.PublicKey{},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	if err := j.fetch(ctx); err != nil {
		cancel()
		return nil, err
	}

	go j.run(ctx, refreshInterval)
	return j, nil
}

func (j *JWKS) run(ctx context.Context, every time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.fetch(ctx); err != nil {
				logrus.WithError(err).WithField("url", j.url).Warn("JWKS refresh failed, keeping previous keys")
			}
		}
	}
}

// Close stops the background refresh and waits for it to exit.
func (j *JWKS) Close() {
	j.cancel()
	<-j.done
}

func (j *JWKS) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, nil)
	if err != nil {
		return fmt.Errorf("jwks: build request: %w", err)
	}

	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("jwks: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks: unexpected status %d", resp.StatusCode)
	}

	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("jwks: decode: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := k.publicKey()
		if err != nil {
			logrus.WithError(err).WithField("kid", k.Kid).Warn("Skipping malformed JWKS key")
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("jwks: no usable RSA signing keys")
	}

	j.mu.Lock()
	j.keys = keys
	j.lastFetched = time.Now()
	j.mu.Unlock()
	return nil
}

func (k jwk) publicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() < 3 {
		return nil, errors.New("exponent out of range")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}

func (j *JWKS) lookup(kid string) (*rsa.PublicKey, time.Time) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.keys[kid], j.lastFetched
}

// Get returns the key for kid. An unknown kid triggers a refetch, at most
// once per minMissRefresh, to pick up rotated keys.
func (j *JWKS) Get(kid string) (*rsa.PublicKey, error) {
	key, fetched := j.lookup(kid)
	if key != nil {
		return key, nil
	}
	if time.Since(fetched) < minMissRefresh {
		return nil, ErrKeyNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := j.fetch(ctx); err != nil {
		return nil, err
	}

	if key, _ = j.lookup(kid); key == nil {
		return nil, ErrKeyNotFound
	}
	return key, nil
}
