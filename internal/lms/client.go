package lms

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dispatcher sends raw commands to the server. It is the transport the mix
// operations are built on.
type Dispatcher interface {
	Command(ctx context.Context, argv []string) (json.RawMessage, error)
	List(ctx context.Context, argv []string, offset, limit int) (json.RawMessage, error)
}

// MixService defines the server operations the Smart Mix editor needs.
// This interface is implemented by *Client and can be used for testing.
type MixService interface {
	FetchGenres(ctx context.Context) ([]string, error)
	ReadMix(ctx context.Context, name string) (string, error)
	SaveMix(ctx context.Context, name, body string) (SaveResult, error)
	DeleteMix(ctx context.Context, id string) (json.RawMessage, error)
	FetchMixes(ctx context.Context) ([]SavedMix, error)
}

// Ensure Client implements both interfaces at compile time.
var (
	_ Dispatcher = (*Client)(nil)
	_ MixService = (*Client)(nil)
)

// ErrServer is wrapped by errors reported in the JSON-RPC error member.
var ErrServer = errors.New("server error")

// Client talks to the music server's JSON-RPC endpoint.
type Client struct {
	endpoint   *url.URL
	http       *http.Client
	userAgent  string
	player     string
	plugin     string
	genreLimit int
	logger     zerolog.Logger
}

// Options tune a Client. Zero values use defaults.
type Options struct {
	Player     string
	Plugin     string
	GenreLimit int
	Timeout    time.Duration
	Logger     zerolog.Logger
}

const (
	defaultServer     = "127.0.0.1:9000"
	defaultUserAgent  = "smartmix/0.1"
	defaultPlugin     = "musicsimilarity"
	defaultGenreLimit = 10000
	defaultTimeout    = 10 * time.Second
	rpcPath           = "/jsonrpc.js"
	rpcMethod         = "slim.request"
)

// NewClient builds a Client for the server at host:port (or a full URL).
func NewClient(server string, opts Options) (*Client, error) {
	endpoint, err := parseEndpoint(server)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	plugin := strings.TrimSpace(opts.Plugin)
	if plugin == "" {
		plugin = defaultPlugin
	}
	limit := opts.GenreLimit
	if limit <= 0 {
		limit = defaultGenreLimit
	}
	return &Client{
		endpoint:   endpoint,
		http:       &http.Client{Timeout: timeout},
		userAgent:  defaultUserAgent,
		player:     strings.TrimSpace(opts.Player),
		plugin:     plugin,
		genreLimit: limit,
		logger:     opts.Logger.With().Str("component", "lms").Logger(),
	}, nil
}

// Plugin returns the plugin name used as the first command token.
func (c *Client) Plugin() string {
	return c.plugin
}

// Command sends argv and returns the raw result member.
func (c *Client) Command(ctx context.Context, argv []string) (json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	params := make([]any, len(argv))
	for i, a := range argv {
		params[i] = a
	}
	return c.call(ctx, params)
}

// List sends a paged list query: argv[0] offset limit argv[1:]...
func (c *Client) List(ctx context.Context, argv []string, offset, limit int) (json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("list query requires a command")
	}
	params := []any{argv[0], offset, limit}
	for _, a := range argv[1:] {
		params = append(params, a)
	}
	return c.call(ctx, params)
}

// FetchGenres returns the genre vocabulary in server order.
func (c *Client) FetchGenres(ctx context.Context) ([]string, error) {
	raw, err := c.List(ctx, []string{"genres"}, 0, c.genreLimit)
	if err != nil {
		return nil, err
	}
	var payload GenresResponse
	if err := decodeResult(raw, &payload); err != nil {
		return nil, err
	}
	genres := make([]string, 0, len(payload.GenresLoop))
	for _, g := range payload.GenresLoop {
		if g.Genre != "" {
			genres = append(genres, g.Genre)
		}
	}
	return genres, nil
}

// ReadMix returns the stored body of the named mix. An empty string means the
// server has no body for it.
func (c *Client) ReadMix(ctx context.Context, name string) (string, error) {
	raw, err := c.Command(ctx, []string{c.plugin, "readmix", "mix:" + name})
	if err != nil {
		return "", err
	}
	var payload ReadMixResponse
	if err := decodeResult(raw, &payload); err != nil {
		return "", err
	}
	return payload.Body, nil
}

// SaveMix builds a mix from body. An empty name creates a new mix, otherwise
// the named mix is updated in place.
func (c *Client) SaveMix(ctx context.Context, name, body string) (SaveResult, error) {
	command := SaveCommand(c.plugin, name, body)
	raw, err := c.Command(ctx, command)
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{Command: command, Result: raw}, nil
}

// SaveCommand returns the argv used by SaveMix.
func SaveCommand(plugin, name, body string) []string {
	command := []string{plugin, "mix", "body:" + body, "menu:1", "attrmix:1"}
	if name = strings.TrimSpace(name); name != "" {
		command = append(command, "mix:"+name)
	}
	return command
}

// DeleteMix removes the mix with the given id and returns the raw result.
func (c *Client) DeleteMix(ctx context.Context, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("mix id required")
	}
	return c.Command(ctx, []string{c.plugin, "delmix", "mix:" + id})
}

// FetchMixes lists the mixes saved on the server.
func (c *Client) FetchMixes(ctx context.Context) ([]SavedMix, error) {
	raw, err := c.Command(ctx, []string{c.plugin, "mixes"})
	if err != nil {
		return nil, err
	}
	var payload MixesResponse
	if err := decodeResult(raw, &payload); err != nil {
		return nil, err
	}
	return payload.ItemLoop, nil
}

func (c *Client) call(ctx context.Context, argv []any) (json.RawMessage, error) {
	reqBody := rpcRequest{
		ID:     uuid.NewString(),
		Method: rpcMethod,
		Params: []any{c.player, argv},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("request_id", reqBody.ID).
		Interface("argv", argv).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("rpc")

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("rpc %v returned status %d", argv[0], resp.StatusCode)
	}
	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		return nil, fmt.Errorf("%w: %s", ErrServer, strings.TrimSpace(string(envelope.Error)))
	}
	return envelope.Result, nil
}

func decodeResult(raw json.RawMessage, dest any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func parseEndpoint(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse server %q: missing host", server)
	}
	u.Path = rpcPath
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
