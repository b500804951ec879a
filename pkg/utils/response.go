package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const maxBodyBytes = 1 << 20

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends {"error": message}
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Message sends {"message": message}
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// DecodeJSON reads a size-limited JSON request body into v
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// QueryInt parses a non-negative integer query parameter, returning def when absent
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return v, nil
}

// QueryLimit parses a page size. Zero is rejected so it never reads as "no limit".
func QueryLimit(r *http.Request, key string, def int) (int, error) {
	v, err := QueryInt(r, key, def)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return v, nil
}
