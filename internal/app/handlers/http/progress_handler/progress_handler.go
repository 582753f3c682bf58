package progress_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
	progressService "github.com/IT-Nick/compliance-bot/internal/domain/savedprogress/service"
	httpError "github.com/IT-Nick/compliance-bot/pkg/http"
)

// GetProgressHandler возвращает сохраненный прогресс пользователя
type GetProgressHandler struct {
	progressService *progressService.ProgressService
}

// NewGetProgressHandler создает новый экземпляр обработчика
func NewGetProgressHandler(progressService *progressService.ProgressService) *GetProgressHandler {
	return &GetProgressHandler{progressService: progressService}
}

// ServeHTTP метод для обработки запроса
func (h *GetProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m, ok, err := h.progressService.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get progress: %v", err))
		return
	}
	if !ok {
		httpError.ErrorResponse(w, http.StatusNotFound, "No progress found for this user.")
		return
	}
	httpError.JSONResponse(w, http.StatusOK, m)
}

// SaveProgressHandler сохраняет прогресс пользователя, заменяя предыдущий
type SaveProgressHandler struct {
	progressService *progressService.ProgressService
}

// NewSaveProgressHandler создает новый экземпляр обработчика
func NewSaveProgressHandler(progressService *progressService.ProgressService) *SaveProgressHandler {
	return &SaveProgressHandler{progressService: progressService}
}

// ServeHTTP метод для обработки запроса
func (h *SaveProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var m model.ProgressMap
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil || m == nil {
		httpError.ErrorResponse(w, http.StatusBadRequest, progressService.ErrInvalidProgress.Error())
		return
	}

	if err := h.progressService.Save(r.Context(), r.PathValue("username"), m); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save progress: %v", err))
		return
	}
	httpError.MessageResponse(w, http.StatusOK, "Progress saved successfully.")
}

// DeleteProgressHandler удаляет прогресс пользователя
type DeleteProgressHandler struct {
	progressService *progressService.ProgressService
}

// NewDeleteProgressHandler создает новый экземпляр обработчика
func NewDeleteProgressHandler(progressService *progressService.ProgressService) *DeleteProgressHandler {
	return &DeleteProgressHandler{progressService: progressService}
}

// ServeHTTP метод для обработки запроса
func (h *DeleteProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.progressService.Delete(r.Context(), r.PathValue("username"))
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete progress: %v", err))
		return
	}
	if !deleted {
		httpError.ErrorResponse(w, http.StatusNotFound, "No progress found to delete.")
		return
	}
	httpError.MessageResponse(w, http.StatusOK, "Progress deleted successfully.")
}
