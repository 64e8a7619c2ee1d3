// Package list реализует HTTP-обработчик списка подписок с фильтром по вычисленному статусу.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Filter параметры строки запроса.
type Filter struct {
	Status models.SubscriptionStatus `validate:"omitempty,oneof=active expiring expired pending cancelled"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает выборку подписок.
type Service interface {
	List(ctx context.Context, status models.SubscriptionStatus) ([]models.SubscriptionView, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Список подписок
// @Description Подписки с вычисленным статусом. Фильтр status применяется к вычисленному статусу.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Param status query string false "active, expiring, expired, pending или cancelled"
// @Success 200 {array} models.SubscriptionView "Подписки"
// @Failure 422 {object} response.ErrorResponse "Неизвестный статус"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := Filter{Status: models.SubscriptionStatus(r.URL.Query().Get("status"))}
	if err := h.validate.Struct(filter); err != nil {
		log.Error("invalid status filter", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	subs, err := h.service.List(r.Context(), filter.Status)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.Fail(w, r, err, "could not list subscriptions")
		return
	}

	log.Info("subscriptions listed", slog.String("status", string(filter.Status)), slog.Int("count", len(subs)))
	render.JSON(w, r, response.OKWithData(subs))
}
