// Package activities реализует HTTP-обработчик ленты последних событий зала.
package activities

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

// DefaultLimit длина ленты по умолчанию.
const DefaultLimit = 5

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	RecentActivities(ctx context.Context, limit int) ([]models.Activity, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Последние события
// @Description Новые подписки и записи журнала, новые первыми.
// @Tags Finance
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Количество событий, по умолчанию 5"
// @Success 200 {array} models.Activity "События"
// @Router /finance/activities [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.activities"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := request.Int(r, "limit", DefaultLimit)
	if err != nil {
		log.Error("invalid limit parameter", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	items, err := h.service.RecentActivities(r.Context(), limit)
	if err != nil {
		log.Error("failed to list activities", sl.Err(err))
		response.Fail(w, r, err, "could not list activities")
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}
