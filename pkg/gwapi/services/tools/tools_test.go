package tools

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ogPage = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="OG Title">
<meta name="twitter:title" content="Twitter Title">
<meta name="description" content="Plain description">
<meta name="twitter:image" content="https://cdn.example.com/card.png">
</head><body><svg><title>icon</title></svg></body></html>`

const plainPage = `<html><head><title> Just a title </title></head><body></body></html>`

func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/og", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(ogPage))
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(plainPage))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head></head></html>`))
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<title>" + r.Header.Get("User-Agent") + "</title>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPreviewExtractsCardMetadata(t *testing.T) {
	srv := newPageServer(t)
	p := NewPreviewer(PreviewConfig{AllowPrivate: true}, nil)

	meta, err := p.Preview(context.Background(), srv.URL+"/og")
	require.NoError(t, err)
	assert.Equal(t, "OG Title", meta.Title)
	assert.Equal(t, "Plain description", meta.Description)
	assert.Equal(t, "https://cdn.example.com/card.png", meta.ImageURL)
	assert.Equal(t, srv.URL+"/og", meta.URL)
}

func TestPreviewFallsBackToTitleThenURL(t *testing.T) {
	srv := newPageServer(t)
	p := NewPreviewer(PreviewConfig{AllowPrivate: true}, nil)

	meta, err := p.Preview(context.Background(), srv.URL+"/plain")
	require.NoError(t, err)
	assert.Equal(t, "Just a title", meta.Title)
	assert.Empty(t, meta.ImageURL)

	meta, err = p.Preview(context.Background(), srv.URL+"/empty")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/empty", meta.Title)
}

func TestPreviewSendsUserAgent(t *testing.T) {
	srv := newPageServer(t)
	p := NewPreviewer(PreviewConfig{AllowPrivate: true}, nil)

	meta, err := p.Preview(context.Background(), srv.URL+"/ua")
	require.NoError(t, err)
	assert.Equal(t, previewUserAgent, meta.Title)
}

func TestPreviewErrors(t *testing.T) {
	srv := newPageServer(t)
	p := NewPreviewer(PreviewConfig{AllowPrivate: true}, nil)

	tests := []struct {
		name    string
		url     string
		status  int
		message string
	}{
		{"missing", "", http.StatusBadRequest, "No URL provided"},
		{"malformed", "not a url", http.StatusBadRequest, "Invalid URL format"},
		{"wrong scheme", "ftp://example.com/file", http.StatusBadRequest, "Invalid URL format"},
		{"upstream 404", srv.URL + "/missing", http.StatusBadRequest, "Failed to fetch URL (HTTP 404)"},
		{"not html", srv.URL + "/json", http.StatusBadRequest, "URL does not return HTML content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Preview(context.Background(), tt.url)
			var perr *PreviewError
			require.True(t, errors.As(err, &perr), "expected *PreviewError, got %v", err)
			assert.Equal(t, tt.status, perr.Status)
			assert.Equal(t, tt.message, perr.Message)
		})
	}
}

func TestPreviewBlocksLoopbackByDefault(t *testing.T) {
	srv := newPageServer(t)
	p := NewPreviewer(PreviewConfig{Timeout: 2 * time.Second}, nil)

	_, err := p.Preview(context.Background(), srv.URL+"/og")
	var perr *PreviewError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusInternalServerError, perr.Status)
	assert.ErrorIs(t, err, errBlockedAddress)
}

func TestIsBlockedIP(t *testing.T) {
	blocked := []string{"127.0.0.1", "10.1.2.3", "192.168.0.10", "169.254.169.254", "100.64.0.1", "::1", "fe80::1", "0.0.0.0"}
	for _, s := range blocked {
		assert.True(t, isBlockedIP(net.ParseIP(s)), s)
	}
	allowed := []string{"93.184.216.34", "2606:4700:4700::1111"}
	for _, s := range allowed {
		assert.False(t, isBlockedIP(net.ParseIP(s)), s)
	}
}

func TestClockFormatsZone(t *testing.T) {
	// Wednesday 2025-01-01 05:30:00.250 UTC
	fixed := time.Date(2025, 1, 1, 5, 30, 0, 250_000_000, time.UTC)
	clock := NewClock().WithNow(func() time.Time { return fixed })

	info, err := clock.In("Asia/Bangkok")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", info.Timezone)
	assert.Equal(t, "2025-01-01T12:30:00.250+07:00", info.Datetime)
	assert.Equal(t, "2025-01-01", info.Date)
	assert.Equal(t, "12:30:00+07:00", info.Time)
	assert.Equal(t, fixed.Unix(), info.Unix)
	assert.Equal(t, 420, info.Offset)
	assert.Equal(t, "12:30 PM", info.Time12Hr)
	assert.Equal(t, "12:30", info.Time24Hr)
	assert.Equal(t, 3, info.DayOfWeek)
	assert.Equal(t, 1, info.DayOfYear)
}

func TestClockDefaultsToUTC(t *testing.T) {
	// Sunday
	fixed := time.Date(2025, 3, 2, 23, 5, 0, 0, time.UTC)
	clock := NewClock().WithNow(func() time.Time { return fixed })

	info, err := clock.In("")
	require.NoError(t, err)
	assert.Equal(t, "UTC", info.Timezone)
	assert.Equal(t, "2025-03-02T23:05:00.000Z", info.Datetime)
	assert.Equal(t, "23:05:00Z", info.Time)
	assert.Equal(t, 0, info.Offset)
	assert.Equal(t, "11:05 PM", info.Time12Hr)
	assert.Equal(t, 7, info.DayOfWeek)
	assert.Equal(t, 61, info.DayOfYear)
}

func TestClockNamedZoneAtZeroOffset(t *testing.T) {
	// London is on GMT in winter
	fixed := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	clock := NewClock().WithNow(func() time.Time { return fixed })

	info, err := clock.In("Europe/London")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", info.Timezone)
	assert.Equal(t, "2025-01-15T09:00:00.000+00:00", info.Datetime)
	assert.Equal(t, "09:00:00+00:00", info.Time)
	assert.Equal(t, 0, info.Offset)
}

func TestClockRejectsUnknownZone(t *testing.T) {
	clock := NewClock()
	for _, zone := range []string{"Mars/Olympus", "Local"} {
		_, err := clock.In(zone)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTimezone)
		assert.True(t, gwerr.IsCode(err, gwerr.CodeInvalidInput))
	}
}
