package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"recipebrowser/internal/config"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const maxResponseBytes = 4 << 20

var tracer = otel.Tracer("recipebrowser/internal/recipes")

// Client talks to the remote recipe collection.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client

	lists singleflight.Group
	// bumped after every write so later lists never join a fetch that predates it
	generation atomic.Uint64
}

// NewClient creates a recipe API client. Retries are off unless cfg.Retries is set.
func NewClient(cfg config.APIConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultAPIURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if cfg.Retries < 0 {
		return nil, errors.New("retries must not be negative")
	}

	rc := retryablehttp.NewClient()
	if cfg.HTTPClient != nil {
		// copy so the timeout below does not leak into the caller's client
		hc := *cfg.HTTPClient
		rc.HTTPClient = &hc
	}
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	rc.RetryMax = cfg.Retries
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	// status handling happens here, not in retryablehttp
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = slog.Default()

	return &Client{
		baseURL:    baseURL,
		httpClient: rc,
	}, nil
}

// BaseURL is the collection endpoint the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches every recipe in the collection.
func (c *Client) List(ctx context.Context) ([]Recipe, error) {
	key := "list/" + strconv.FormatUint(c.generation.Load(), 10)
	ch := c.lists.DoChan(key, func() (any, error) {
		// shared by every caller that joins, so one caller going away must not cancel it
		return c.list(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			apiListsShared.Inc()
		}
		return slices.Clone(res.Val.([]Recipe)), nil
	}
}

// Ready reports whether the collection can be listed.
func (c *Client) Ready(ctx context.Context) error {
	if _, err := c.List(ctx); err != nil {
		return fmt.Errorf("recipe api not ready: %w", err)
	}
	return nil
}

func (c *Client) list(ctx context.Context) ([]Recipe, error) {
	var list []Recipe
	err := c.do(ctx, "list", http.MethodGet, c.baseURL, nil, func(body []byte) error {
		if !json.Valid(body) {
			return fmt.Errorf("list response was not valid JSON: %s", truncate(body))
		}
		if err := json.Unmarshal(body, &list); err != nil {
			return fmt.Errorf("decode list response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Create posts r to the collection. The response body is not used.
func (c *Client) Create(ctx context.Context, r Recipe) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}
	defer c.generation.Add(1)
	return c.do(ctx, "create", http.MethodPost, c.baseURL, payload, nil)
}

// Delete removes the recipe with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("recipe id is required")
	}
	defer c.generation.Add(1)
	return c.do(ctx, "delete", http.MethodDelete, c.baseURL+"/"+url.PathEscape(id), nil, func(body []byte) error {
		// confirmation bodies are JSON; empty is accepted too
		if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
			return fmt.Errorf("delete response was not valid JSON: %s", truncate(body))
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, op, method, rawURL string, payload []byte, handle func([]byte) error) (err error) {
	ctx, span := tracer.Start(ctx, "recipes."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", rawURL),
		))
	start := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		outcome := "success"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		apiRequestsTotal.WithLabelValues(op, outcome).Inc()
		span.End()
	}()

	var body any
	if payload != nil {
		body = payload
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s recipes: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.ErrorContext(ctx, "recipe API returned error status", "operation", op, "status", resp.StatusCode)
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(truncate(respBody))}
	}
	if handle == nil {
		return nil
	}
	return handle(respBody)
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
