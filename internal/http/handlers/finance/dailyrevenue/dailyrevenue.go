// Package dailyrevenue реализует HTTP-обработчик выручки по дням для графика.
package dailyrevenue

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

// DefaultDays окно графика по умолчанию.
const DefaultDays = 30

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	DailyRevenue(ctx context.Context, windowDays int) ([]models.DailyRevenue, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выручка по дням
// @Tags Finance
// @Produce  json
// @Security BearerAuth
// @Param days query int false "Количество дней, по умолчанию 30"
// @Success 200 {array} models.DailyRevenue "Выручка, старые дни первыми"
// @Failure 400 {object} response.ErrorResponse "Некорректное число дней"
// @Router /finance/daily-revenue [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.dailyrevenue"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	days, err := request.Int(r, "days", DefaultDays)
	if err != nil {
		log.Error("invalid days parameter", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	series, err := h.service.DailyRevenue(r.Context(), days)
	if err != nil {
		log.Error("failed to build daily revenue", sl.Err(err))
		response.Fail(w, r, err, "could not build daily revenue")
		return
	}

	render.JSON(w, r, response.OKWithData(series))
}
