package transport

import (
	"encoding/json"
	"net/http"

	"userservice/internal/shared/logger"
)

// Envelope — общий формат ответа /users
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, log *logger.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error(logger.Entry{
			Action:  "encode_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

func (h *HTTPHandler) respondData(w http.ResponseWriter, status int, message string, data any) {
	respondJSON(w, h.log, status, Envelope{Success: true, Message: message, Data: data})
}

func (h *HTTPHandler) respondList(w http.ResponseWriter, message string, count int, data any) {
	respondJSON(w, h.log, http.StatusOK, Envelope{Success: true, Message: message, Count: &count, Data: data})
}

// respondFail — ответ без поля error (not found и ошибки валидации входа)
func (h *HTTPHandler) respondFail(w http.ResponseWriter, status int, message string) {
	respondJSON(w, h.log, status, Envelope{Success: false, Message: message})
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	respondJSON(w, h.log, status, Envelope{Success: false, Message: message, Error: err.Error()})
}
