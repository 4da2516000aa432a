// Package shopapi — клиент внешнего REST API магазина: каталог, автодополнение
// и CRUD заказов. Каждый метод делает ровно один HTTP-запрос, повторов нет.
package shopapi

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

	"github.com/Gunvolt24/techshop/internal/ports"
	"github.com/Gunvolt24/techshop/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxErrorBody — сколько байт тела ошибки читаем в поисках сообщения.
const maxErrorBody = 64 << 10

// Config — параметры подключения.
type Config struct {
	BaseURL    string
	PathPrefix string
	APIKey     string
	Timeout    time.Duration
}

// Client — реализация ports.CatalogAPI и ports.OrderAPI.
type Client struct {
	base   *url.URL
	apiKey string
	http   *http.Client
	log    ports.Logger
}

var (
	_ ports.CatalogAPI = (*Client)(nil)
	_ ports.OrderAPI   = (*Client)(nil)
)

// New — клиент с транспортом, обёрнутым otelhttp (спаны и проброс trace-контекста).
func New(cfg Config, log ports.Logger) (*Client, error) {
	return NewWithHTTPClient(cfg, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, log)
}

// NewWithHTTPClient — то же с готовым *http.Client (тесты, особые транспорты).
func NewWithHTTPClient(cfg Config, hc *http.Client, log ports.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q: scheme and host required", cfg.BaseURL)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/" + strings.Trim(cfg.PathPrefix, "/")
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: base, apiKey: cfg.APIKey, http: hc, log: log}, nil
}

// endpointURL — base + path + query; api_key добавляется всегда.
func (c *Client) endpointURL(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")

	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// do — один запрос к API. body кодируется в JSON, если не nil; ответ
// декодируется в out, если out не nil.
func (c *Client) do(
	ctx context.Context,
	endpoint, method, path string,
	query url.Values,
	body, out any,
) error {
	start := time.Now()
	defer func() {
		metrics.ShopAPILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(path, query), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(ctx, &APIError{Kind: KindTransport, Endpoint: endpoint, Message: transportMessage(err), Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, statusError(endpoint, resp))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.ShopAPIRequests.WithLabelValues(endpoint, "ok").Inc()
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(ctx, &APIError{
			Kind:     KindDecode,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  "unexpected response format",
			Err:      err,
		})
	}
	metrics.ShopAPIRequests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func (c *Client) fail(ctx context.Context, apiErr *APIError) error {
	metrics.ShopAPIRequests.WithLabelValues(apiErr.Endpoint, string(apiErr.Kind)).Inc()
	c.log.Errorf(ctx, "shop api request failed endpoint=%s kind=%s status=%d msg=%s",
		apiErr.Endpoint, apiErr.Kind, apiErr.Status, apiErr.Message)
	return apiErr
}

// statusError — сообщение из {"error": "..."}, иначе «HTTP error <status>».
func statusError(endpoint string, resp *http.Response) *APIError {
	apiErr := &APIError{
		Kind:     KindUnparsable,
		Endpoint: endpoint,
		Status:   resp.StatusCode,
		Message:  fmt.Sprintf("HTTP error %d", resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		apiErr.Err = err
		return apiErr
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		apiErr.Err = err
		return apiErr
	}
	apiErr.Kind = KindStatus
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		apiErr.Message = msg
	}
	return apiErr
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return "network error"
	}
}
