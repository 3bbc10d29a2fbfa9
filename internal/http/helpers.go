package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseDays reads the days query parameter, defaulting to 7 and clamping to
// a sane trailing window.
func parseDays(r *http.Request) (int, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("days"))
	if v == "" {
		return 7, true
	}
	days, err := strconv.Atoi(v)
	if err != nil || days < 1 || days > 365 {
		return 0, false
	}
	return days, true
}

// parseMillis reads an optional millisecond timestamp query parameter.
func parseMillis(r *http.Request, key string) (int64, bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0, false, nil
	}
	ts, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return ts, true, nil
}
