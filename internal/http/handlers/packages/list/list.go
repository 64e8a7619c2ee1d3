// Package list реализует HTTP-обработчик каталога тарифных пакетов.
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

type Service interface {
	ListPackages(ctx context.Context) ([]*models.Package, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пакетов
// @Tags Packages
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.Package "Пакеты"
// @Router /packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	pkgs, err := h.service.ListPackages(r.Context())
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		response.Fail(w, r, err, "could not list packages")
		return
	}

	render.JSON(w, r, response.OKWithData(pkgs))
}
