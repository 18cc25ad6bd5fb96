package templates

import (
	"strings"
	"time"
)

// Data merges branding into the caller's template data. Caller keys win.
func Data(b Branding, data any) map[string]any {
	out := ToMap(b)
	for k, v := range ToMap(data) {
		out[k] = v
	}
	switch at := out["SentAt"].(type) {
	case time.Time:
		out["SentAtText"] = at.UTC().Format(stampLayout)
	case string:
		out["SentAtText"] = formatStamp(at)
	}
	return out
}

const stampLayout = "02 January 2006, 15:04 MST"

// formatStamp renders an RFC3339 stamp for humans, or returns it unchanged.
func formatStamp(s string) string {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return t.UTC().Format(stampLayout)
}
