package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dmx-editor/preset"
)

// DefaultTimeout bounds every request to the controller.
const DefaultTimeout = 5 * time.Second

const maxResponseBytes = 4 << 20

var (
	// ErrUnreachable covers network failures and timeouts.
	ErrUnreachable = errors.New("controller not reachable")
	// ErrMalformed means the controller answered with an unusable payload.
	ErrMalformed = errors.New("malformed controller payload")
)

// StatusError reports a non-2xx answer from the controller.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.Code)
}

// HTTPDoer describes the HTTP client used to reach the controller.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the lighting controller's JSON API.
type Client struct {
	baseURL string
	client  HTTPDoer
	timeout time.Duration
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Client) {
		if d != nil {
			c.client = d
		}
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a client for the controller at baseURL. A bare host such
// as "192.168.1.100" is treated as http.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: NormalizeBaseURL(baseURL),
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "controller", "controller_url", c.baseURL)
	return c
}

// NormalizeBaseURL trims raw and gives bare hosts an http scheme.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return raw
}

// BaseURL is the normalized controller address.
func (c *Client) BaseURL() string { return c.baseURL }

// Snapshot is a well-formed preset list received from the controller.
type Snapshot struct {
	Count   int
	Presets []preset.Preset
}

type presetsPayload struct {
	Count   int             `json:"count"`
	Presets json.RawMessage `json:"presets"`
}

type wirePreset struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Values1 []int  `json:"values1"`
	Values2 []int  `json:"values2"`
}

// FetchPresets loads the controller's preset list.
func (c *Client) FetchPresets(ctx context.Context) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	const path = "/api/presets"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build presets request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Snapshot{}, &StatusError{Method: http.MethodGet, Path: path, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: read presets: %w", ErrUnreachable, err)
	}
	snap, err := decodeSnapshot(body)
	if err != nil {
		return Snapshot{}, err
	}
	c.logger.Debug("presets fetched", "count", snap.Count, "presets", len(snap.Presets))
	return snap, nil
}

func decodeSnapshot(body []byte) (Snapshot, error) {
	var payload presetsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	raw := bytes.TrimSpace(payload.Presets)
	if len(raw) == 0 || raw[0] != '[' {
		return Snapshot{}, fmt.Errorf("%w: presets is not an array", ErrMalformed)
	}
	var wire []wirePreset
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(wire) > preset.Capacity {
		return Snapshot{}, fmt.Errorf("%w: %d presets", ErrMalformed, len(wire))
	}
	if payload.Count < 0 || payload.Count > preset.Capacity {
		return Snapshot{}, fmt.Errorf("%w: count %d", ErrMalformed, payload.Count)
	}

	presets := make([]preset.Preset, len(wire))
	for i, w := range wire {
		p := preset.Preset{ID: i + 1, Name: w.Name}
		if err := fillUniverse(&p.Values1, w.Values1); err != nil {
			return Snapshot{}, fmt.Errorf("%w: preset %d values1: %w", ErrMalformed, i+1, err)
		}
		if err := fillUniverse(&p.Values2, w.Values2); err != nil {
			return Snapshot{}, fmt.Errorf("%w: preset %d values2: %w", ErrMalformed, i+1, err)
		}
		presets[i] = p
	}

	count := payload.Count
	if count == 0 {
		count = len(presets)
	}
	return Snapshot{Count: count, Presets: presets}, nil
}

func fillUniverse(dst *preset.Universe, values []int) error {
	if len(values) > preset.UniverseSize {
		return fmt.Errorf("%d channels", len(values))
	}
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("channel %d value %d", i, v)
		}
		dst[i] = uint8(v)
	}
	return nil
}

// SendConfig posts the controller settings.
func (c *Client) SendConfig(ctx context.Context, s Settings) error {
	return c.postJSON(ctx, "/api/config", s)
}

// SendPreset posts one preset. Any 2xx answer counts as success.
func (c *Client) SendPreset(ctx context.Context, p preset.Preset) error {
	return c.postJSON(ctx, "/api/preset", p)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: http.MethodPost, Path: path, Code: resp.StatusCode}
	}
	return nil
}

// SaveAll sends the settings, then every preset concurrently. A settings
// failure is logged and otherwise ignored. Each preset send has its own
// deadline; the result counts the outcomes once all of them have finished.
func (c *Client) SaveAll(ctx context.Context, s Settings, presets []preset.Preset) Tally {
	if err := c.SendConfig(ctx, s); err != nil {
		c.logger.Warn("config upload failed", "error", err)
	}

	errs := joinAll(ctx, presets, c.SendPreset)

	var t Tally
	for i, err := range errs {
		if err != nil {
			t.Failed++
			c.logger.Warn("preset upload failed", "preset_id", presets[i].ID, "error", err)
			continue
		}
		t.Sent++
	}
	c.logger.Info("presets uploaded", "sent", t.Sent, "failed", t.Failed)
	return t
}
