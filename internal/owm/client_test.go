package owm_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"weather-lookup/internal/config"
	"weather-lookup/internal/models"
	"weather-lookup/internal/owm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const londonBody = `{
	"coord": {"lon": -0.1257, "lat": 51.5085},
	"weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
	"main": {"temp": 15.0, "feels_like": 13.5, "temp_min": 14.1, "temp_max": 16.2, "humidity": 81},
	"sys": {"country": "GB"},
	"name": "London",
	"cod": 200
}`

func newServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newClient(baseURL string) *owm.Client {
	return owm.New(config.Config{OpenWeatherAPIKey: "test-key", BaseURL: baseURL})
}

func TestClient_CurrentWeather_Success(t *testing.T) {
	srv, req := newServer(t, http.StatusOK, londonBody)

	data, err := newClient(srv.URL+"/data/2.5/weather").CurrentWeather(context.Background(), models.Query{City: "London", Units: models.Metric})
	if err != nil {
		t.Fatalf("CurrentWeather() error = %v", err)
	}

	if req.URL.Path != "/data/2.5/weather" {
		t.Errorf("unexpected path: %s", req.URL.Path)
	}
	q := req.URL.Query()
	if q.Get("q") != "London" || q.Get("appid") != "test-key" || q.Get("units") != "metric" {
		t.Errorf("unexpected query: %s", req.URL.RawQuery)
	}
	if req.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if data["name"] != "London" {
		t.Errorf("name = %v, want London", data["name"])
	}
}

func TestClient_CurrentWeather_DefaultsAndPassThroughUnits(t *testing.T) {
	tests := []struct {
		name  string
		units models.Units
		want  string
	}{
		{name: "empty defaults to metric", units: "", want: "metric"},
		{name: "standard", units: models.Standard, want: "standard"},
		{name: "unrecognized forwarded unchanged", units: "rankine", want: "rankine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, req := newServer(t, http.StatusOK, londonBody)
			if _, err := newClient(srv.URL).CurrentWeather(context.Background(), models.Query{City: "São Paulo", Units: tt.units}); err != nil {
				t.Fatalf("CurrentWeather() error = %v", err)
			}
			if got := req.URL.Query().Get("units"); got != tt.want {
				t.Errorf("units = %q, want %q", got, tt.want)
			}
			if got := req.URL.Query().Get("q"); got != "São Paulo" {
				t.Errorf("q = %q, want city unchanged", got)
			}
		})
	}
}

func TestClient_CurrentWeather_StatusCodeForms(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		code    string
		message string
	}{
		{name: "numeric 200", status: http.StatusOK, body: `{"cod": 200, "main": {"temp": 1}}`},
		{name: "string 200", status: http.StatusOK, body: `{"cod": "200", "main": {"temp": 1}}`},
		{name: "string 404", status: http.StatusNotFound, body: `{"cod": "404", "message": "city not found"}`, wantErr: true, code: "404", message: "city not found"},
		{name: "numeric 401 on http 200", status: http.StatusOK, body: `{"cod": 401, "message": "Invalid API key"}`, wantErr: true, code: "401", message: "Invalid API key"},
		{name: "missing message", status: http.StatusTooManyRequests, body: `{"cod": 429}`, wantErr: true, code: "429", message: "Unknown error from API"},
		{name: "missing cod", status: http.StatusOK, body: `{"main": {"temp": 1}}`, wantErr: true, code: "none", message: "Unknown error from API"},
		{name: "string 200.0 is not success", status: http.StatusOK, body: `{"cod": "200.0"}`, wantErr: true, code: "200.0", message: "Unknown error from API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			_, err := newClient(srv.URL).CurrentWeather(context.Background(), models.Query{City: "Nowhere"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("CurrentWeather() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var apiErr *owm.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.Code != tt.code {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.code)
			}
			if apiErr.Message != tt.message {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.message)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.message)
			}
		})
	}
}

func TestClient_CurrentWeather_NetworkErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := newClient(url).CurrentWeather(context.Background(), models.Query{City: "London"})
		var netErr *owm.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected *NetworkError, got %T: %v", err, err)
		}
		if !strings.HasPrefix(err.Error(), "Network/API request failed") {
			t.Errorf("unexpected message: %q", err.Error())
		}
		if strings.Contains(err.Error(), "test-key") {
			t.Errorf("error leaks api key: %q", err.Error())
		}
	})

	t.Run("non json body", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusBadGateway, "<html>bad gateway</html>")

		_, err := newClient(srv.URL).CurrentWeather(context.Background(), models.Query{City: "London"})
		var netErr *owm.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected *NetworkError, got %T: %v", err, err)
		}
		if !strings.Contains(err.Error(), "HTTP 502") {
			t.Errorf("expected status in message, got %q", err.Error())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusOK, londonBody)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newClient(srv.URL).CurrentWeather(ctx, models.Query{City: "London"})
		var netErr *owm.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected *NetworkError, got %T: %v", err, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled in chain, got %v", err)
		}
	})
}

func TestClient_CurrentWeather_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	srv, _ := newServer(t, http.StatusNotFound, `{"cod": "404", "message": "city not found"}`)
	_, _ = newClient(srv.URL).CurrentWeather(context.Background(), models.Query{City: "Atlantis"})

	var found bool
	for _, span := range recorder.Ended() {
		if span.Name() != "owm: current-weather" {
			continue
		}
		found = true
		if span.Status().Code != codes.Error {
			t.Errorf("span status = %v, want Error", span.Status().Code)
		}
		for _, attr := range span.Attributes() {
			if strings.Contains(attr.Value.Emit(), "test-key") {
				t.Errorf("span attribute %s leaks api key", attr.Key)
			}
		}
	}
	if !found {
		t.Fatal("expected owm: current-weather span")
	}
}
