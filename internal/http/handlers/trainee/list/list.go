// Package list реализует HTTP-обработчик списка клиентов зала.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение списка клиентов.
type Service interface {
	List(ctx context.Context) ([]*models.User, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список клиентов
// @Tags Trainees
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.User "Клиенты"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /trainees [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainee.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	trainees, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list trainees", sl.Err(err))
		response.Fail(w, r, err, "could not list trainees")
		return
	}

	log.Info("trainees listed", slog.Int("count", len(trainees)))
	render.JSON(w, r, response.OKWithData(trainees))
}
