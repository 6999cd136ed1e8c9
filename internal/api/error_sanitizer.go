package api

import (
	"log"
	"net/http"
)

// =============================================================================
// ERROR SANITIZER
// Ensures internal errors (artifact paths, query details) are never leaked to
// API consumers. All 5xx errors return generic safe messages while the full
// error is logged server-side for debugging.
// =============================================================================

// sanitizedError logs the full internal error and returns a public-safe message.
func sanitizedError(code int, internalErr error, publicMsg string) string {
	if internalErr != nil {
		log.Printf("ERROR [%d]: %s: %v", code, publicMsg, internalErr)
	}
	return publicMsg
}

// respondSafeError logs the internal error and sends a sanitized JSON error
// response to the client.
func respondSafeError(w http.ResponseWriter, code int, internalErr error, publicMsg string) {
	msg := sanitizedError(code, internalErr, publicMsg)
	respondJSON(w, code, map[string]string{"error": msg})
}
