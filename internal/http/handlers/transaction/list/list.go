// Package list реализует HTTP-обработчик журнала финансовых операций.
// С параметрами start и end возвращает операции за период, иначе весь журнал.
package list

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

type Handler struct {
	log     *slog.Logger
	service Service
	loc     *time.Location
	now     func() time.Time
}

// Service описывает чтение журнала.
type Service interface {
	List(ctx context.Context) ([]*models.Transaction, error)
	ListByRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
}

func New(log *slog.Logger, service Service, loc *time.Location) *Handler {
	return &Handler{
		log:     log,
		service: service,
		loc:     loc,
		now:     time.Now,
	}
}

// ServeHTTP godoc
// @Summary Журнал операций
// @Tags Transactions
// @Produce  json
// @Security BearerAuth
// @Param start query string false "Начало периода, YYYY-MM-DD"
// @Param end query string false "Конец периода включительно, YYYY-MM-DD"
// @Success 200 {array} models.Transaction "Операции, новые первыми"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Router /transactions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var (
		txs []*models.Transaction
		err error
	)
	q := r.URL.Query()
	if q.Has("start") || q.Has("end") {
		start, end, rangeErr := request.DateRange(r, h.loc, h.now())
		if rangeErr != nil {
			log.Error("failed to parse date range", sl.Err(rangeErr))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(rangeErr.Error()))
			return
		}
		txs, err = h.service.ListByRange(r.Context(), start, end)
	} else {
		txs, err = h.service.List(r.Context())
	}
	if err != nil {
		log.Error("failed to list transactions", sl.Err(err))
		response.Fail(w, r, err, "could not list transactions")
		return
	}

	render.JSON(w, r, response.OKWithData(txs))
}
