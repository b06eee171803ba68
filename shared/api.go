package shared

import (
	"encoding/json"
	"net/http"
)

// HttpError writes the {"error": message} body shared by every failure path of
// the API, transport encoders and middlewares alike.
func HttpError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
	})
}
