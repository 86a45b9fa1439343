package handler

import (
	"net/http"
	"strconv"
)

// writeJSON writes a pre-encoded JSON body
func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeEmpty writes a status code with no body
func writeEmpty(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(status)
}

// NotFound handles requests for unknown paths
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeEmpty(w, http.StatusNotFound)
}

// MethodNotAllowed handles path requested with an unsupported method. chi
// also sends methods it does not recognise here before matching the path,
// so any other path is answered with 404.
func MethodNotAllowed(path string, allow ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			NotFound(w, r)
			return
		}
		for _, m := range allow {
			w.Header().Add("Allow", m)
		}
		writeEmpty(w, http.StatusMethodNotAllowed)
	}
}
