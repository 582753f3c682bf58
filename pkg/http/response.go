package http

import (
	"encoding/json"
	"log"
	"net/http"
)

// MessageBody тело ответа с текстовым сообщением
type MessageBody struct {
	Message string `json:"message"`
}

// ErrorResponse отправляет ошибку в формате {"message": "..."}
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, MessageBody{Message: message})
}

// MessageResponse отправляет успешный ответ с текстовым сообщением
func MessageResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, MessageBody{Message: message})
}

// JSONResponse кодирует body в JSON и отправляет его с указанным статусом
func JSONResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
