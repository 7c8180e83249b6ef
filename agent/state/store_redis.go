package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultCheckpointPrefix = "concierge:thread:"
	defaultProfilePrefix    = "concierge:profile:"
	defaultCheckpointTTL    = 24 * time.Hour
	maxRedisResponseBytes   = 2 << 20
)

// RedisConfig configures the Upstash Redis REST backend shared by the
// durable checkpoint and memory stores.
type RedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type redisClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func newRedisClient(cfg RedisConfig) (*redisClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("redis rest url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("redis rest token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &redisClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *redisClient) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if c == nil {
		return nil, errors.New("nil redis client")
	}
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRedisResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

// getJSON runs GET key and decodes the string-wrapped JSON payload into
// out. Returns false when the key is absent.
func (c *redisClient) getJSON(ctx context.Context, key string, out any) (bool, error) {
	resp, err := c.exec(ctx, []any{"GET", key})
	if err != nil {
		return false, err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return false, nil
	}

	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return false, fmt.Errorf("decode redis payload: %w", err)
	}
	if err := json.Unmarshal([]byte(encoded), out); err != nil {
		return false, fmt.Errorf("unmarshal redis value: %w", err)
	}
	return true, nil
}

func (c *redisClient) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal redis value: %w", err)
	}

	cmd := []any{"SET", key, string(payload)}
	if ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(ttl))
	}
	_, err = c.exec(ctx, cmd)
	return err
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}

// RedisCheckpointStore persists checkpoints in Upstash Redis via REST,
// one key per thread with a rolling TTL.
type RedisCheckpointStore struct {
	client    *redisClient
	keyPrefix string
	ttl       time.Duration
}

// RedisStoreOption customizes the Redis-backed stores.
type RedisStoreOption func(*redisStoreSettings)

type redisStoreSettings struct {
	keyPrefix string
	ttl       time.Duration
	client    *http.Client
}

func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *redisStoreSettings) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *redisStoreSettings) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) RedisStoreOption {
	return func(s *redisStoreSettings) {
		if client != nil {
			s.client = client
		}
	}
}

func NewRedisCheckpointStore(cfg RedisConfig, opts ...RedisStoreOption) (*RedisCheckpointStore, error) {
	client, settings, err := buildRedisBackend(cfg, defaultCheckpointPrefix, defaultCheckpointTTL, opts)
	if err != nil {
		return nil, err
	}
	return &RedisCheckpointStore{
		client:    client,
		keyPrefix: settings.keyPrefix,
		ttl:       settings.ttl,
	}, nil
}

func (s *RedisCheckpointStore) Get(ctx context.Context, threadID string) (*Checkpoint, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return nil, ErrInvalidThread
	}

	var cp Checkpoint
	found, err := s.client.getJSON(ctx, s.keyPrefix+threadID, &cp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCheckpointNotFound
	}
	if err := cp.State.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checkpoint loaded from store: %w", err)
	}
	return &cp, nil
}

func (s *RedisCheckpointStore) Put(ctx context.Context, cp *Checkpoint) error {
	if cp == nil {
		return ErrNilCheckpoint
	}
	if strings.TrimSpace(cp.ThreadID) == "" {
		return ErrInvalidThread
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	return s.client.setJSON(ctx, s.keyPrefix+cp.ThreadID, cp, s.ttl)
}

// RedisMemoryStore persists memory profiles in Upstash Redis via REST,
// one key per customer, no TTL: preferences are long-term.
type RedisMemoryStore struct {
	client    *redisClient
	keyPrefix string
}

func NewRedisMemoryStore(cfg RedisConfig, opts ...RedisStoreOption) (*RedisMemoryStore, error) {
	client, settings, err := buildRedisBackend(cfg, defaultProfilePrefix, 0, opts)
	if err != nil {
		return nil, err
	}
	return &RedisMemoryStore{
		client:    client,
		keyPrefix: settings.keyPrefix,
	}, nil
}

func (s *RedisMemoryStore) Get(ctx context.Context, customerID string) (MemoryProfile, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return MemoryProfile{}, ErrInvalidCustomer
	}

	var profile MemoryProfile
	found, err := s.client.getJSON(ctx, s.keyPrefix+customerID, &profile)
	if err != nil {
		return MemoryProfile{}, err
	}
	if !found {
		return MemoryProfile{}, ErrProfileNotFound
	}
	return profile, nil
}

func (s *RedisMemoryStore) Put(ctx context.Context, profile MemoryProfile) error {
	if strings.TrimSpace(profile.CustomerID) == "" {
		return ErrInvalidCustomer
	}
	return s.client.setJSON(ctx, s.keyPrefix+profile.CustomerID, profile, 0)
}

func buildRedisBackend(
	cfg RedisConfig,
	defaultPrefix string,
	defaultTTL time.Duration,
	opts []RedisStoreOption,
) (*redisClient, *redisStoreSettings, error) {
	settings := &redisStoreSettings{
		keyPrefix: defaultPrefix,
		ttl:       defaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}
	if settings.ttl < 0 {
		return nil, nil, errors.New("ttl must be >= 0")
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	if settings.client != nil {
		client.httpClient = settings.client
	}
	return client, settings, nil
}
