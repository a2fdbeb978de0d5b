package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"wealthtracker/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, core.Validation("id", fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

// decodeJSON decodes a request body into dst, rejecting unknown fields and
// oversized payloads.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return core.Validation("body", fmt.Sprintf("malformed JSON: %v", err))
	}
	return nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, core.Validation(name, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
	}
	return &t, nil
}

// queryEndDate parses an optional end date and extends it to the end of the
// day so the bound is inclusive.
func queryEndDate(r *http.Request, name string) (*time.Time, error) {
	t, err := queryDate(r, name)
	if err != nil || t == nil {
		return t, err
	}
	end := t.Add(24*time.Hour - time.Second)
	return &end, nil
}
