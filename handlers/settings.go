// handlers/settings.go
package handlers

import "net/http"

// GetConfigKeys tells clients which AI/OCR providers are in use. Both run
// without server-held API keys, so there are no secrets to hand out.
// GET /api/config/keys
func GetConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"aiProvider":      "puter",
		"ocrProvider":     "tesseract",
		"requiresApiKeys": false,
	})
}
