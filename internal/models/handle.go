package models

import "strings"

func normalizeHandle(raw string) string {
	h := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://", "t.me/s/", "t.me/", "@"} {
		h = strings.TrimPrefix(h, prefix)
	}
	return strings.Trim(h, "/")
}
