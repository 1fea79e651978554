package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"weather-lookup/internal/config"
	"weather-lookup/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const requestTimeout = 10 * time.Second

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

func New(cfg config.Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	return &Client{
		apiKey:  cfg.OpenWeatherAPIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: otel.Tracer("weather-lookup/owm"),
	}
}

// CurrentWeather issues a single GET against the current weather endpoint and
// returns the decoded body. The body is returned only when its embedded cod
// reports success; the HTTP status line is not consulted.
func (c *Client) CurrentWeather(ctx context.Context, q models.Query) (map[string]any, error) {
	units := q.Units
	if units == "" {
		units = models.DefaultUnits
	}
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "owm: current-weather")
	defer span.End()
	span.SetAttributes(
		attribute.String("weather.city", q.City),
		attribute.String("weather.units", string(units)),
		attribute.String("http.request_id", requestID),
	)

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fail(span, &NetworkError{Err: fmt.Errorf("invalid endpoint: %w", err)}, "invalid endpoint")
	}
	params := u.Query()
	params.Set("q", q.City)
	params.Set("appid", c.apiKey)
	params.Set("units", string(units))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fail(span, &NetworkError{Err: err}, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	slog.DebugContext(ctx, "requesting current weather", "city", q.City, "units", units, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, appid included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fail(span, &NetworkError{Err: err}, "request failed")
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	slog.DebugContext(ctx, "current weather response", "status", resp.StatusCode, "request_id", requestID)

	var body map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fail(span, &NetworkError{Err: fmt.Errorf("decoding response (HTTP %d): %w", resp.StatusCode, err)}, "failed to decode response")
	}
	if body == nil {
		return nil, fail(span, &NetworkError{Err: fmt.Errorf("empty response body (HTTP %d)", resp.StatusCode)}, "empty response")
	}

	if !isSuccessCode(body["cod"]) {
		apiErr := &APIError{Message: apiMessage(body), Code: codeString(body["cod"])}
		slog.DebugContext(ctx, "provider reported failure", "cod", apiErr.Code, "message", apiErr.Message, "request_id", requestID)
		return nil, fail(span, apiErr, "provider reported failure")
	}

	span.SetStatus(codes.Ok, "")
	return body, nil
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

// isSuccessCode accepts cod as either the number 200 or the string "200"; the
// provider uses both forms.
func isSuccessCode(v any) bool {
	switch cod := v.(type) {
	case json.Number:
		f, err := cod.Float64()
		return err == nil && f == http.StatusOK
	case string:
		return cod == "200"
	}
	return false
}

func apiMessage(body map[string]any) string {
	v, ok := body["message"]
	if !ok || v == nil {
		return "Unknown error from API"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func codeString(v any) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprint(v)
}
