package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	maxBodyBytes = 64 << 10

	defaultPageLimit = 50
	maxPageLimit     = 200
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeError sends {"error": <localized text>, "code": code} plus extra.
func writeError(w http.ResponseWriter, r *http.Request, status int, code string, extra map[string]any) {
	body := make(map[string]any, len(extra)+2)
	for k, v := range extra {
		body[k] = v
	}

	body["error"] = localize(r, code)
	body["code"] = code

	writeJSON(w, status, body)
}

// decodeJSON reads a single JSON object from the body, rejecting unknown
// fields and bodies over maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}

		return err
	}

	return nil
}

// parsePage reads ?limit=&offset=. Limit defaults to 50 and is capped at 200.
func parsePage(r *http.Request) (int, int, error) {
	limit, offset := defaultPageLimit, 0

	q := r.URL.Query()

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, 0, errors.New("invalid limit")
		}

		limit = min(n, maxPageLimit)
	}

	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, 0, errors.New("invalid offset")
		}

		offset = n
	}

	return limit, offset, nil
}
