package kit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrBadRequest marks endpoint errors caused by the caller's input. HTTP
// handlers map it to 400; every other error is a 500.
var ErrBadRequest = errors.New("bad request")

// HTTPHandler exposes endpoint over HTTP with a JSON body of type T.
// Bodies larger than maxBody bytes are rejected.
func HTTPHandler[T any](endpoint Endpoint, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := WithTransport(r.Context(), "http")
		if id := r.Header.Get("X-Request-ID"); id != "" && GetRequestID(ctx) == "" {
			ctx = WithRequestID(ctx, id)
		}

		var in T
		body := http.MaxBytesReader(w, r.Body, maxBody)
		if err := json.NewDecoder(body).Decode(&in); err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
			return
		}

		resp, err := endpoint(ctx, &in)
		if err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, ErrBadRequest) {
				code = http.StatusBadRequest
			}
			WriteError(w, code, err)
			return
		}
		if id := GetRequestID(ctx); id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg}.
func WriteError(w http.ResponseWriter, code int, err error) {
	WriteJSON(w, code, map[string]string{"error": err.Error()})
}
