// Package dashboard реализует HTTP-обработчик показателей главной страницы.
// Ответ всегда успешный: при сбое чтения сервис отдаёт нулевые показатели.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	DashboardStats(ctx context.Context) models.DashboardStats
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Показатели зала
// @Tags Finance
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats "Показатели за текущий месяц"
// @Router /finance/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(h.service.DashboardStats(r.Context())))
}
