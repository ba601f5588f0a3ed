package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "keyframe:animator:"

// indexName is the key suffix of the name index. Definitions share the
// prefix, so no definition may use it as its name.
const indexName = "index"

// ErrReservedName is returned by Save for a definition named like the index.
var ErrReservedName = errors.New("animator name is reserved by the redis store")

// Store keeps animator definitions in Redis as JSON documents.
// A sorted set at <prefix>index tracks names, scored by expiry time
// (+inf without TTL), so List can drop expired entries lazily.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.DefinitionStore = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires definitions after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + indexName
}

// Save stores def under its name and refreshes its index entry.
func (s *Store) Save(ctx context.Context, def *domain.AnimatorData) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("animator definition missing name")
	}
	if def.Name == indexName {
		return fmt.Errorf("%w: %q", ErrReservedName, def.Name)
	}
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal animator: %w", err)
	}

	score := math.Inf(1)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(def.Name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: def.Name})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save animator to redis: %w", err)
	}
	return nil
}

// Load implements ports.DefinitionLoader.
func (s *Store) Load(ctx context.Context, name string) (*domain.AnimatorData, error) {
	if name == indexName {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnimatorNotFound, name)
	}
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnimatorNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load animator from redis: %w", err)
	}

	var def domain.AnimatorData
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal animator %s: %w", name, err)
	}
	return &def, nil
}

// List implements ports.DefinitionLoader. Expired names are removed from
// the index before it is read.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune animator index: %w", err)
	}

	// Scores order by expiry, not name.
	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list animators: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a definition. Deleting a missing name is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == indexName {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete animator from redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
