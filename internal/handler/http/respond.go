package http

import (
	"encoding/json"
	"net/http"
)

// DegradedHeader помечает ответы, построенные на резервных значениях
const DegradedHeader = "X-Analytics-Degraded"

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, map[string]string{"error": message}, status)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
