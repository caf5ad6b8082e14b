package emotes

import (
	"chatoverlay/internal/app/adapters/metrics"
	"chatoverlay/internal/app/infrastructure/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const storeCapacity = 20_000

var ErrUnexpectedStatus = errors.New("unexpected status")

// Store holds what one provider endpoint returned for the current channel. Every Load
// replaces the previous contents; a failed Load leaves the store empty.
type Store[R any, V any] struct {
	name   string
	url    func(channelID string) string
	decode func(body R) map[string]V
	client *http.Client
	items  *storage.Cache[string, V]
}

func NewStore[R any, V any](name string, client *http.Client, url func(channelID string) string, decode func(body R) map[string]V) *Store[R, V] {
	return &Store[R, V]{
		name:   name,
		url:    url,
		decode: decode,
		client: client,
		items:  storage.NewCache[string, V](storeCapacity, 0),
	}
}

func (s *Store[R, V]) Name() string {
	return s.name
}

func (s *Store[R, V]) Load(ctx context.Context, channelID string) error {
	var body R
	if err := fetchJSON(ctx, s.client, s.url(channelID), &body); err != nil {
		s.items.ClearAll()
		metrics.DirectoryEntries.WithLabelValues(s.name).Set(0)
		return fmt.Errorf("load %s: %w", s.name, err)
	}

	items := s.decode(body)
	s.items.Replace(items)
	metrics.DirectoryEntries.WithLabelValues(s.name).Set(float64(len(items)))
	return nil
}

func (s *Store[R, V]) Get(code string) (V, bool) {
	return s.items.Get(code)
}

func (s *Store[R, V]) Len() int {
	return s.items.Len()
}

func fetchJSON(ctx context.Context, client *http.Client, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// absoluteURL fixes the protocol-relative links some providers return.
func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
