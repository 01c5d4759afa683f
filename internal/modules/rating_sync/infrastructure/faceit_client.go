package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
	"golang.org/x/time/rate"
)

// FACEIT defaults.
const (
	DefaultFaceitBaseURL = "https://open.faceit.com/data/v4"
	DefaultFaceitGame    = "cs2"
	DefaultFaceitTimeout = 5 * time.Second
)

// maxErrorBody bounds how much of an error response is kept for logs.
const maxErrorBody = 512

// FaceitConfig contains FACEIT Data API client configuration.
type FaceitConfig struct {
	BaseURL string
	APIKey  string
	Game    string
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests; zero disables pacing.
	RequestsPerSecond float64
	Burst             int
}

// FaceitClient implements ports.RatingSource using the FACEIT Data API.
type FaceitClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	game       string
	limiter    *rate.Limiter
}

// Ensure FaceitClient implements ports.RatingSource.
var _ ports.RatingSource = (*FaceitClient)(nil)

// NewFaceitClient creates a new FaceitClient.
func NewFaceitClient(config FaceitConfig) *FaceitClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultFaceitBaseURL
	}
	if config.Game == "" {
		config.Game = DefaultFaceitGame
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultFaceitTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	return &FaceitClient{
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		game:       config.Game,
		limiter:    limiter,
	}
}

// faceitPlayer is the subset of GET /players used here.
type faceitPlayer struct {
	Nickname string                `json:"nickname"`
	Games    map[string]faceitGame `json:"games"`
}

type faceitGame struct {
	FaceitElo json.RawMessage `json:"faceit_elo"`
}

// FetchRating looks up the player by exact nickname.
func (c *FaceitClient) FetchRating(
	ctx context.Context,
	nickname string,
) (ports.RatingLookup, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return ports.RatingLookup{}, &ports.UpstreamError{Err: err}
	}

	query := url.Values{}
	query.Set("nickname", nickname)
	query.Set("game", c.game)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/players?"+query.Encode(), nil)
	if err != nil {
		return ports.RatingLookup{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.RatingLookup{}, &ports.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ports.RatingLookup{Found: false}, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return ports.RatingLookup{}, &ports.UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	var player faceitPlayer
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return ports.RatingLookup{}, &ports.UpstreamError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode player: %w", err),
		}
	}

	return c.ratingFrom(player)
}

func (c *FaceitClient) ratingFrom(player faceitPlayer) (ports.RatingLookup, error) {
	game, ok := player.Games[c.game]
	if !ok || len(game.FaceitElo) == 0 || string(game.FaceitElo) == "null" {
		return ports.RatingLookup{Found: false}, nil
	}

	var elo float64
	if err := json.Unmarshal(game.FaceitElo, &elo); err != nil {
		return ports.RatingLookup{}, fmt.Errorf("%w: faceit_elo=%s", ports.ErrMalformedRating,
			string(game.FaceitElo))
	}

	return ports.RatingLookup{Found: true, Rating: elo}, nil
}
