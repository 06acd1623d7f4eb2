// Package httpcache implements domain.Transport over net/http with a
// persistent response cache, so repeat browsing (and the background spider)
// can serve thumbnails and list pages without touching the network.
package httpcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/packview/packview/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const defaultTimeout = 30 * time.Second

var bucketResponses = []byte("responses")

// cachedResponse is the stored record for one URL.
type cachedResponse struct {
	Status  int    `json:"status"`
	Body    []byte `json:"body"`
	Digest  string `json:"digest"`
	SavedAt int64  `json:"saved_at"`
}

// Transport fetches URLs with Default/CacheOnly/NetworkOnly cache semantics.
// Responses are persisted in BoltDB keyed by URL, with an in-memory promotion
// map for hot-path reads.
type Transport struct {
	client *http.Client
	logger *slog.Logger

	db *bolt.DB

	mu  sync.RWMutex // protects memory cache
	mem map[string][]byte
}

// New opens (or creates) the cache under cacheDir. An empty cacheDir selects
// memory-only mode with no persistence. A nil client gets the default timeout.
func New(cacheDir string, client *http.Client, logger *slog.Logger) (*Transport, error) {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	t := &Transport{
		client: client,
		logger: logger,
		mem:    make(map[string][]byte),
	}
	if cacheDir == "" {
		return t, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(filepath.Join(cacheDir, "responses.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open response cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResponses)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	t.db = db
	return t, nil
}

// Close releases the underlying database.
func (t *Transport) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

// Get implements domain.Transport.
func (t *Transport) Get(url string, mode domain.CacheMode) (domain.FetchResponse, error) {
	switch mode {
	case domain.CacheOnly:
		if cached, ok := t.lookup(url); ok {
			return domain.FetchResponse{Status: cached.Status, Body: cached.Body, FromCache: true}, nil
		}
		return domain.FetchResponse{}, domain.ErrCacheMiss

	case domain.NetworkOnly:
		prev, hadPrev := t.lookup(url)
		resp, err := t.fetch(url)
		if err != nil {
			return resp, err
		}
		resp.Changed = !hadPrev || prev.Digest != digest(resp.Body)
		t.store(url, resp)
		return resp, nil

	default:
		if cached, ok := t.lookup(url); ok {
			return domain.FetchResponse{Status: cached.Status, Body: cached.Body, FromCache: true}, nil
		}
		resp, err := t.fetch(url)
		if err != nil {
			return resp, err
		}
		t.store(url, resp)
		return resp, nil
	}
}

func (t *Transport) fetch(url string) (domain.FetchResponse, error) {
	resp, err := t.client.Get(url)
	if err != nil {
		t.logger.Debug("request failed", "url", url, "error", err)
		return domain.FetchResponse{}, fmt.Errorf("%w: %v", domain.ErrArchiveOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.FetchResponse{Status: resp.StatusCode}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.FetchResponse{Status: resp.StatusCode, Body: body},
			fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return domain.FetchResponse{Status: resp.StatusCode, Body: body}, nil
}

func (t *Transport) lookup(url string) (cachedResponse, bool) {
	t.mu.RLock()
	data, ok := t.mem[url]
	t.mu.RUnlock()

	if !ok {
		if t.db == nil {
			return cachedResponse{}, false
		}
		t.db.View(func(tx *bolt.Tx) error {
			if v := tx.Bucket(bucketResponses).Get([]byte(url)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
		if data == nil {
			return cachedResponse{}, false
		}
		// Promote to memory cache.
		t.mu.Lock()
		t.mem[url] = data
		t.mu.Unlock()
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return cachedResponse{}, false
	}
	return cached, true
}

func (t *Transport) store(url string, resp domain.FetchResponse) {
	record := cachedResponse{
		Status:  resp.Status,
		Body:    resp.Body,
		Digest:  digest(resp.Body),
		SavedAt: time.Now().Unix(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}

	t.mu.Lock()
	t.mem[url] = data
	t.mu.Unlock()

	if t.db == nil {
		return
	}
	if err := t.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResponses).Put([]byte(url), data)
	}); err != nil {
		t.logger.Warn("cache write failed", "url", url, "error", err)
	}
}

func digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
