package boltcache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

var responsesBucket = []byte("responses")

// Cache stores generated answers on disk keyed by the normalized
// question. Entries expire lazily on read.
type Cache struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

type entry struct {
	Answer   *domain.Answer `json:"answer"`
	CachedAt time.Time      `json:"cached_at"`
}

func Open(path string, ttl time.Duration) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(responsesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Get(_ context.Context, question string, topK int) (*domain.Answer, error) {
	key := cacheKey(question, topK)

	var raw []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(responsesBucket).Get(key); value != nil {
			raw = append(raw, value...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var stored entry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	if c.now().Sub(stored.CachedAt) > c.ttl {
		err := c.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(responsesBucket).Delete(key)
		})
		if err != nil {
			return nil, fmt.Errorf("purge expired entry: %w", err)
		}
		return nil, nil
	}
	return stored.Answer, nil
}

func (c *Cache) Put(_ context.Context, question string, topK int, answer *domain.Answer) error {
	raw, err := json.Marshal(entry{Answer: answer, CachedAt: c.now()})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(responsesBucket).Put(cacheKey(question, topK), raw)
	})
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func cacheKey(question string, topK int) []byte {
	normalized := strings.ToLower(strings.TrimSpace(question))
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d", normalized, topK)))
	return []byte(hex.EncodeToString(sum[:]))
}
