// Package media talks to the SFU's admin API. The backend is the sole source
// of truth for who is actually connected; this service never tells it what to
// do, it only asks.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tessera.app/spaced/core/config"
)

type RoomInfo struct {
	Name string `json:"name"`
}

type ParticipantInfo struct {
	Identity string `json:"identity"`
}

// Backend is the read-only roster contract against the media server.
type Backend interface {
	ListRooms(ctx context.Context) ([]RoomInfo, error)
	ListParticipants(ctx context.Context, room string) ([]ParticipantInfo, error)
}

type httpBackend struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPBackend(cfg config.MediaConfig) Backend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpBackend{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (b *httpBackend) ListRooms(ctx context.Context) ([]RoomInfo, error) {
	var rooms []RoomInfo
	if err := b.get(ctx, "/rooms", &rooms); err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	return rooms, nil
}

func (b *httpBackend) ListParticipants(ctx context.Context, room string) ([]ParticipantInfo, error) {
	var participants []ParticipantInfo
	path := "/rooms/" + url.PathEscape(room) + "/participants"
	if err := b.get(ctx, path, &participants); err != nil {
		return nil, fmt.Errorf("listing participants of %q: %w", room, err)
	}
	return participants, nil
}

func (b *httpBackend) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("media backend returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
