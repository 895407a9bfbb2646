// Package pokeapi fetches random Pokemon sprites used as contact avatars.
// A lookup is two calls: pokemon metadata, then the sprite it points at.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"phonebook/internal/observability"
)

const (
	MinID = 1
	MaxID = 1000

	defaultBaseURL = "https://pokeapi.co"
	defaultMaxBody = 5 << 20
)

var (
	ErrInvalidID = errors.New("pokeapi: pokemon id out of range")
	ErrNoImage   = errors.New("pokeapi: pokemon has no sprite")
	ErrTooLarge  = errors.New("pokeapi: response body over size limit")
)

type Image struct {
	ID          int
	Bytes       []byte
	ContentType string
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Limiter *rate.Limiter
	Breaker *gobreaker.CircuitBreaker

	MaxAttempts  int
	MaxBodyBytes int64
	Backoff      func(attempt int) time.Duration
	RandomID     func() int
}

type pokemonResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pokeapi: %s returned %d", e.URL, e.StatusCode)
}

func (c *Client) FetchRandom(ctx context.Context) (Image, error) {
	id := MinID + rand.Intn(MaxID-MinID+1)
	if c.RandomID != nil {
		id = c.RandomID()
	}
	return c.Fetch(ctx, id)
}

func (c *Client) Fetch(ctx context.Context, id int) (Image, error) {
	if id < MinID || id > MaxID {
		return Image{}, ErrInvalidID
	}
	start := time.Now()

	body, _, err := c.get(ctx, c.baseURL()+"/api/v2/pokemon/"+strconv.Itoa(id))
	if err != nil {
		return Image{}, err
	}
	var meta pokemonResponse
	if err := json.Unmarshal(body, &meta); err != nil {
		return Image{}, fmt.Errorf("pokeapi: decode pokemon %d: %w", id, err)
	}
	if meta.Sprites.FrontDefault == "" {
		return Image{}, ErrNoImage
	}

	img, contentType, err := c.get(ctx, meta.Sprites.FrontDefault)
	if err != nil {
		return Image{}, err
	}
	if len(img) == 0 {
		return Image{}, ErrNoImage
	}
	observability.AvatarLatency.Observe(time.Since(start).Seconds())

	if contentType == "" {
		contentType = "image/png"
	}
	return Image{ID: id, Bytes: img, ContentType: contentType}, nil
}

// get performs one GET with local rate limiting, the circuit breaker and a
// few retries on transient failures.
func (c *Client) get(ctx context.Context, url string) ([]byte, string, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := c.Backoff
	if backoff == nil {
		backoff = Backoff
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if c.Limiter != nil {
			waitCtx, cancelWait := context.WithTimeout(ctx, 2*time.Second)
			err := c.Limiter.Wait(waitCtx)
			cancelWait()
			if err != nil {
				observability.AvatarFetch.WithLabelValues("rate_limited_local", "0").Inc()
				if ctx.Err() != nil {
					return nil, "", ctx.Err()
				}
				lastErr = err
				continue
			}
		}

		res, err := c.executeWithBreaker(ctx, url)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			observability.AvatarFetch.WithLabelValues("cb_open", "0").Inc()
			return nil, "", err
		}
		if err == nil {
			observability.AvatarFetch.WithLabelValues("ok", strconv.Itoa(res.status)).Inc()
			return res.body, res.contentType, nil
		}

		lastErr = err
		status := 0
		var se *StatusError
		if errors.As(err, &se) {
			status = se.StatusCode
		}
		observability.AvatarFetch.WithLabelValues("error", strconv.Itoa(status)).Inc()

		if !ShouldRetry(err, status) || attempt == attempts-1 {
			return nil, "", err
		}
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	return nil, "", lastErr
}

type getResult struct {
	body        []byte
	contentType string
	status      int
}

func (c *Client) executeWithBreaker(ctx context.Context, url string) (getResult, error) {
	call := func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient().Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		limit := c.maxBody()
		b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err != nil {
			return nil, err
		}
		if int64(len(b)) > limit {
			return nil, fmt.Errorf("%w: %s", ErrTooLarge, url)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
		}
		return getResult{body: b, contentType: resp.Header.Get("Content-Type"), status: resp.StatusCode}, nil
	}

	var (
		out any
		err error
	)
	if c.Breaker == nil {
		out, err = call()
	} else {
		out, err = c.Breaker.Execute(call)
	}
	if err != nil {
		return getResult{}, err
	}
	return out.(getResult), nil
}

func (c *Client) baseURL() string {
	if u := strings.TrimRight(c.BaseURL, "/"); u != "" {
		return u
	}
	return defaultBaseURL
}

func (c *Client) maxBody() int64 {
	if c.MaxBodyBytes > 0 {
		return c.MaxBodyBytes
	}
	return defaultMaxBody
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// NewBreaker trips after consecutive transport or 5xx failures. Plain 4xx
// answers (unknown pokemon) count as successes.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 10 },
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
			}
			return false
		},
	})
}

// ShouldRetry reports whether a failed call is worth repeating.
func ShouldRetry(err error, httpStatus int) bool {
	if httpStatus == http.StatusTooManyRequests || httpStatus == http.StatusRequestTimeout {
		return true
	}
	if httpStatus >= 500 && httpStatus <= 599 {
		return true
	}
	if err == nil || httpStatus != 0 {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func Backoff(attempt int) time.Duration {
	// 200ms, 600ms, 1400ms
	base := []time.Duration{200 * time.Millisecond, 600 * time.Millisecond, 1400 * time.Millisecond}
	if attempt <= 0 {
		return base[0]
	}
	if attempt >= len(base) {
		return base[len(base)-1]
	}
	return base[attempt]
}
