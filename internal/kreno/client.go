package kreno

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

const (
	maxBodySize     = 4 << 20
	requestIDHeader = "X-Request-ID"
)

// Config параметры клиента Kreno API
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Retries количество повторов GET-запросов при сетевой ошибке
	Retries uint64
	// Backoff базовая задержка между повторами
	Backoff time.Duration
}

// Client клиент Kreno API
type Client struct {
	baseURL  string
	http     *http.Client
	retries  uint64
	backoff  time.Duration
	validate *validator.Validate
	logger   *zap.Logger
}

// New создает новый клиент
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		retries:  cfg.Retries,
		backoff:  backoff,
		validate: model.NewValidator(),
		logger:   logger,
	}
}

// request описание одного вызова API
type request struct {
	endpoint string
	method   string
	query    url.Values
	body     any
}

// envelope общая обертка ответов {success, message, ...}
type envelope map[string]json.RawMessage

// call выполняет запрос и возвращает разобранную обертку ответа
func (c *Client) call(ctx context.Context, req request) (envelope, error) {
	if req.method != http.MethodGet {
		return c.do(ctx, req)
	}

	var env envelope
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		env, err = c.do(ctx, req)
		if apperr.IsKind(err, apperr.KindNetwork) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

// do выполняет один HTTP-запрос без повторов
func (c *Client) do(ctx context.Context, req request) (envelope, error) {
	target := c.baseURL + "/" + req.endpoint
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", req.endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", req.endpoint, err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With(
		zap.String("endpoint", req.endpoint),
		zap.String("method", req.method),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.RecordBackendRequest(req.endpoint, req.method, "network_error", time.Since(start))
		logger.Warn("Backend request failed", zap.Error(err))
		return nil, apperr.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	metrics.RecordBackendRequest(req.endpoint, req.method, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))
	if err != nil {
		logger.Warn("Failed to read backend response", zap.Error(err))
		return nil, apperr.Network(err)
	}

	env, err := decodeEnvelope(resp.StatusCode, raw)
	if err != nil {
		logger.Warn("Backend returned an error",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Debug("Backend request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)
	return env, nil
}

// decodeEnvelope проверяет статус и поле success
func decodeEnvelope(status int, raw []byte) (envelope, error) {
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status < 200 || status > 299 {
		message := http.StatusText(status)
		if decodeErr == nil {
			if m := env.message(); m != "" {
				message = m
			}
		}
		return nil, apperr.Server(status, message)
	}

	if decodeErr != nil {
		return nil, apperr.Malformed("response is not a JSON object: %v", decodeErr)
	}

	rawSuccess, ok := env["success"]
	if !ok {
		return nil, apperr.Malformed("response has no success field")
	}
	var success bool
	if err := json.Unmarshal(rawSuccess, &success); err != nil {
		return nil, apperr.Malformed("success is not a boolean")
	}
	if !success {
		return nil, apperr.Server(status, env.message())
	}

	return env, nil
}

func (e envelope) message() string {
	raw, ok := e["message"]
	if !ok {
		return ""
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ""
	}
	return msg
}

// payload разбирает поле key обертки в dst.
// Возвращает false если поле отсутствует или равно null.
func (e envelope) payload(key string, dst any) (bool, error) {
	raw, ok := e[key]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, apperr.Malformed("field %q has unexpected shape: %v", key, err)
	}
	return true, nil
}

// list разбирает список элементов и валидирует каждый
func list[T any](c *Client, env envelope, key string) ([]T, error) {
	var items []T
	if _, err := env.payload(key, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if err := c.validate.Struct(items[i]); err != nil {
			return nil, malformedItem(key, i, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// single разбирает обязательный объект и валидирует его
func single[T any](c *Client, env envelope, key string) (T, error) {
	var item T
	found, err := env.payload(key, &item)
	if err != nil {
		return item, err
	}
	if !found {
		return item, apperr.Malformed("response has no %q field", key)
	}
	if err := c.validate.Struct(item); err != nil {
		return item, malformedItem(key, -1, err)
	}
	return item, nil
}

func malformedItem(key string, index int, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		err = fmt.Errorf("%s failed %q", verrs[0].Namespace(), verrs[0].Tag())
	}
	if index >= 0 {
		return apperr.Malformed("%s[%d]: %v", key, index, err)
	}
	return apperr.Malformed("%s: %v", key, err)
}
