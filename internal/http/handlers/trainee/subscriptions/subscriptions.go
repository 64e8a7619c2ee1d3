// Package subscriptions реализует HTTP-обработчик истории подписок одного клиента.
package subscriptions

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

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку подписок клиента.
type Service interface {
	ListByUser(ctx context.Context, userID string) ([]models.SubscriptionView, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подписки клиента
// @Description Все подписки клиента с вычисленным статусом, новые первыми.
// @Tags Trainees
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID клиента"
// @Success 200 {array} models.SubscriptionView "Подписки"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /trainees/{id}/subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainee.subscriptions"
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

	subs, err := h.service.ListByUser(r.Context(), id)
	if err != nil {
		log.Error("failed to list trainee subscriptions", sl.ID("trainee_id", id), sl.Err(err))
		response.Fail(w, r, err, "could not list subscriptions")
		return
	}

	render.JSON(w, r, response.OKWithData(subs))
}
