package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes a success:false envelope with the correct Content-Type,
// matching the handler layer's failure shape.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": msg})
}
