// Package summary реализует HTTP-обработчик финансовой сводки за период.
//
// Параметры start и end задаются датами YYYY-MM-DD в часовом поясе зала,
// день end включается целиком. Без параметров берётся текущий месяц.
package summary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/request"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Handler обрабатывает запросы финансовой сводки.
type Handler struct {
	log     *slog.Logger
	service Service
	loc     *time.Location
	now     func() time.Time
}

// Service описывает расчёт сводки.
type Service interface {
	Summary(ctx context.Context, start, end time.Time) (*models.FinancialSummary, error)
}

// New создает Handler. Даты разбираются в часовом поясе зала loc.
func New(log *slog.Logger, service Service, loc *time.Location) *Handler {
	return &Handler{
		log:     log,
		service: service,
		loc:     loc,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Финансовая сводка
// @Description Доходы по источникам, расходы по категориям и выручка по дням за период.
// @Tags Finance
// @Produce  json
// @Security BearerAuth
// @Param start query string false "Начало периода, YYYY-MM-DD"
// @Param end query string false "Конец периода включительно, YYYY-MM-DD"
// @Success 200 {object} models.FinancialSummary "Сводка"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 422 {object} response.ErrorResponse "Конец периода раньше начала"
// @Router /finance/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.finance.summary"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	start, end, err := request.DateRange(r, h.loc, h.now())
	if err != nil {
		log.Error("failed to parse date range", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	summary, err := h.service.Summary(r.Context(), start, end)
	if err != nil {
		log.Error("failed to build summary", sl.Err(err))
		response.Fail(w, r, err, "could not build financial summary")
		return
	}

	log.Info("summary built", slog.Time("start", start), slog.Time("end", end))
	render.JSON(w, r, response.OKWithData(summary))
}
