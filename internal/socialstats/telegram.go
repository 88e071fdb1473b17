// Package socialstats scrapes public audience numbers for creators' social channels.
package socialstats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const DefaultTelegramURL = "https://t.me"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// recentPosts is how many of the latest posts feed the average.
const recentPosts = 20

type Post struct {
	MessageID int64     `json:"messageId"`
	Date      time.Time `json:"date"`
	Views     *int      `json:"views,omitempty"`
}

type ChannelStats struct {
	Handle         string    `json:"handle"`
	Subscribers    *int      `json:"subscribers,omitempty"`
	Verified       bool      `json:"verified"`
	AvgViews       *int      `json:"avgViews,omitempty"`
	EngagementRate *float64  `json:"engagementRate,omitempty"`
	PostsSampled   int       `json:"postsSampled"`
	Language       string    `json:"language"`
	FetchedAt      time.Time `json:"fetchedAt"`
}

// Metrics flattens the stats into the creator profile's metrics map.
func (s *ChannelStats) Metrics() map[string]any {
	m := map[string]any{
		"source":       "telegram",
		"handle":       s.Handle,
		"verified":     s.Verified,
		"language":     s.Language,
		"postsSampled": s.PostsSampled,
		"fetchedAt":    s.FetchedAt,
	}
	if s.Subscribers != nil {
		m["subscribers"] = *s.Subscribers
	}
	if s.AvgViews != nil {
		m["avgViews"] = *s.AvgViews
	}
	if s.EngagementRate != nil {
		m["engagementRate"] = *s.EngagementRate
	}
	return m
}

type TelegramFetcher struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	log        *zap.Logger
}

func NewTelegramFetcher(baseURL string, timeoutMS, maxRetries int, log *zap.Logger) *TelegramFetcher {
	if baseURL == "" {
		baseURL = DefaultTelegramURL
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TelegramFetcher{
		httpClient: &http.Client{Timeout: time.Duration(timeoutMS) * time.Millisecond},
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: maxRetries,
		log:        log,
	}
}

// Fetch downloads the public preview page of a channel and parses it.
func (f *TelegramFetcher) Fetch(ctx context.Context, handle string) (*ChannelStats, error) {
	url := fmt.Sprintf("%s/s/%s", f.baseURL, handle)

	var doc *goquery.Document
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		doc, lastErr = f.get(ctx, url)
		if lastErr == nil {
			break
		}
		f.log.Debug("telegram fetch failed", zap.String("handle", handle), zap.Int("attempt", attempt), zap.Error(lastErr))
	}
	if lastErr != nil {
		return nil, lastErr
	}

	stats := Parse(doc)
	stats.Handle = handle
	stats.FetchedAt = time.Now().UTC()
	return stats, nil
}

func (f *TelegramFetcher) get(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// Parse extracts subscribers, the verified badge and view counts from a t.me/s page.
func Parse(doc *goquery.Document) *ChannelStats {
	stats := &ChannelStats{}

	doc.Find(".tgme_channel_info_counter").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(s.Find(".counter_type").Text()))
		if !strings.Contains(label, "subscriber") && !strings.Contains(label, "member") {
			return
		}
		if n := parseCount(s.Find(".counter_value").Text()); n > 0 {
			stats.Subscribers = &n
		}
	})
	if stats.Subscribers == nil {
		// older layout
		doc.Find(".tgme_channel_info_header_counter, .tgme_page_extra").Each(func(_ int, s *goquery.Selection) {
			text := strings.ToLower(s.Text())
			if strings.Contains(text, "subscriber") || strings.Contains(text, "member") {
				if n := parseCount(text); n > 0 {
					stats.Subscribers = &n
				}
			}
		})
	}

	stats.Verified = doc.Find(".tgme_channel_info_header_title .verified-icon").Length() > 0

	var posts []Post
	var allText strings.Builder
	doc.Find(".tgme_widget_message_wrap").Each(func(_ int, s *goquery.Selection) {
		var post Post
		if dataPost, ok := s.Find(".tgme_widget_message").Attr("data-post"); ok {
			if i := strings.LastIndex(dataPost, "/"); i >= 0 {
				post.MessageID, _ = strconv.ParseInt(dataPost[i+1:], 10, 64)
			}
		}
		if dt, ok := s.Find(".tgme_widget_message_date time").Attr("datetime"); ok {
			post.Date, _ = time.Parse(time.RFC3339, dt)
		}
		if n := parseCount(s.Find(".tgme_widget_message_views").First().Text()); n > 0 {
			post.Views = &n
		}
		allText.WriteString(strings.TrimSpace(s.Find(".tgme_widget_message_text").Text()))
		allText.WriteString(" ")

		if post.MessageID > 0 {
			posts = append(posts, post)
		}
	})

	// the page lists posts oldest first
	if len(posts) > recentPosts {
		posts = posts[len(posts)-recentPosts:]
	}
	stats.PostsSampled = len(posts)

	total, n := 0, 0
	for _, p := range posts {
		if p.Views != nil {
			total += *p.Views
			n++
		}
	}
	if n > 0 {
		avg := total / n
		stats.AvgViews = &avg
		if stats.Subscribers != nil && *stats.Subscribers > 0 {
			er := float64(avg) / float64(*stats.Subscribers) * 100
			er = float64(int(er*100+0.5)) / 100
			stats.EngagementRate = &er
		}
	}

	stats.Language = guessLanguage(allText.String())
	return stats
}

var countRE = regexp.MustCompile(`[\d.]+[KkMm]?`)

// parseCount reads counters such as "1.2K", "12,345" or "1 234 subscribers".
func parseCount(text string) int {
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, "\u00a0", "")
	text = strings.ReplaceAll(text, ",", "")

	match := countRE.FindString(text)
	if match == "" {
		return 0
	}

	multiplier := 1.0
	switch match[len(match)-1] {
	case 'K', 'k':
		multiplier = 1e3
		match = match[:len(match)-1]
	case 'M', 'm':
		multiplier = 1e6
		match = match[:len(match)-1]
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return int(f*multiplier + 0.5)
}

func guessLanguage(text string) string {
	var cyrillic, latin, arabic, cjk, letters int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana):
			cjk++
		}
	}
	if letters == 0 {
		return "unknown"
	}

	share := func(n int) float64 { return float64(n) / float64(letters) }
	switch {
	case share(cyrillic) >= 0.3:
		return "ru"
	case share(arabic) >= 0.3:
		return "ar"
	case share(cjk) >= 0.3:
		return "zh"
	case share(latin) >= 0.3:
		return "en"
	}
	return "other"
}
