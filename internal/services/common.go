package services

import (
	"sort"
	"strings"
	"time"

	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore"
)

const dayLayout = "2006-01-02"

// clock is replaced in tests.
var clock = func() time.Time { return time.Now().UTC() }

// paginate returns the page-th window of an already filtered and sorted slice.
func paginate[T any](items []T, page, pageSize int) []T {
	offset, limit := rowstore.Pagination(page, pageSize)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// dailyCounts buckets timestamps by UTC day, sorted ascending.
func dailyCounts(times []time.Time) []models.DailyCount {
	buckets := make(map[string]int)
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		buckets[t.UTC().Format(dayLayout)]++
	}
	out := make([]models.DailyCount, 0, len(buckets))
	for day, n := range buckets {
		out = append(out, models.DailyCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func cumulative(daily []models.DailyCount) []models.DailyCount {
	out := make([]models.DailyCount, len(daily))
	total := 0
	for i, d := range daily {
		total += d.Count
		out[i] = models.DailyCount{Date: d.Date, Count: total}
	}
	return out
}

func countBy[T any](items []T, key func(T) string) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
