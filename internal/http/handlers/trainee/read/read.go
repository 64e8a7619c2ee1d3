// Package read реализует HTTP-обработчик получения клиента по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/request"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Handler обрабатывает запросы на получение клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение клиента.
type Service interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить клиента
// @Tags Trainees
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID клиента"
// @Success 200 {object} models.User "Клиент"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /trainees/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainee.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		log.Error("failed to get id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("id is required"))
		return
	}

	trainee, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read trainee", sl.ID("trainee_id", id), sl.Err(err))
		response.Fail(w, r, err, "could not read trainee")
		return
	}

	render.JSON(w, r, response.OKWithData(trainee))
}
