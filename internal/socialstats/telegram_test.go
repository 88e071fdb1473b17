package socialstats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const channelPage = `<html><body>
<div class="tgme_channel_info">
  <div class="tgme_channel_info_header_title"><span>Creator</span><i class="verified-icon"></i></div>
  <div class="tgme_channel_info_counters">
    <div class="tgme_channel_info_counter"><span class="counter_value">10K</span> <span class="counter_type">subscribers</span></div>
    <div class="tgme_channel_info_counter"><span class="counter_value">12</span> <span class="counter_type">photos</span></div>
  </div>
</div>
<div class="tgme_widget_message_wrap">
  <div class="tgme_widget_message" data-post="creator/41">
    <div class="tgme_widget_message_text">Hello world, this is a post</div>
    <span class="tgme_widget_message_views">1.5K</span>
    <a class="tgme_widget_message_date"><time datetime="2024-05-01T10:00:00+00:00"></time></a>
  </div>
</div>
<div class="tgme_widget_message_wrap">
  <div class="tgme_widget_message" data-post="creator/42">
    <div class="tgme_widget_message_text">Another english post here</div>
    <span class="tgme_widget_message_views">500</span>
    <a class="tgme_widget_message_date"><time datetime="2024-05-02T10:00:00+00:00"></time></a>
  </div>
</div>
</body></html>`

func TestParseCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1.2K", 1200},
		{"1.5M", 1500000},
		{"123", 123},
		{"12,345", 12345},
		{"1 234", 1234},
		{"5.6K views", 5600},
		{"100K", 100000},
		{"0", 0},
		{"", 0},
		{"no number", 0},
		{"42k", 42000},
		{"3.14k", 3140},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseCount(tt.input); got != tt.expected {
				t.Errorf("parseCount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGuessLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Привет мир, это тестовый текст на русском языке", "ru"},
		{"Hello world, this is a test text in English", "en"},
		{"", "unknown"},
		{"مرحبا بالعالم", "ar"},
		{"12345 !!!", "unknown"},
		{"Привет hello мир world тест test текст text", "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := guessLanguage(tt.input); got != tt.expected {
				t.Errorf("guessLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(channelPage))
	require.NoError(t, err)

	stats := Parse(doc)
	require.NotNil(t, stats.Subscribers)
	assert.Equal(t, 10000, *stats.Subscribers)
	assert.True(t, stats.Verified)
	assert.Equal(t, 2, stats.PostsSampled)
	require.NotNil(t, stats.AvgViews)
	assert.Equal(t, 1000, *stats.AvgViews)
	require.NotNil(t, stats.EngagementRate)
	assert.InDelta(t, 10.0, *stats.EngagementRate, 0.001)
	assert.Equal(t, "en", stats.Language)
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "/s/creator", r.URL.Path)
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(channelPage))
	}))
	defer srv.Close()

	f := NewTelegramFetcher(srv.URL, 2000, 2, zap.NewNop())
	stats, err := f.Fetch(context.Background(), "creator")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, "creator", stats.Handle)
	assert.False(t, stats.FetchedAt.IsZero())
	assert.Equal(t, 10000, stats.Metrics()["subscribers"])
}

func TestFetchGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewTelegramFetcher(srv.URL, 2000, 0, zap.NewNop())
	_, err := f.Fetch(context.Background(), "missing")
	assert.ErrorContains(t, err, "HTTP 404")
}
