// Package read реализует HTTP-обработчик получения пакета по ID.
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

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	GetPackage(ctx context.Context, id string) (*models.Package, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пакет
// @Tags Packages
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID пакета"
// @Success 200 {object} models.Package "Пакет"
// @Failure 404 {object} response.ErrorResponse "Пакет не найден"
// @Router /packages/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.read"
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

	pkg, err := h.service.GetPackage(r.Context(), id)
	if err != nil {
		log.Error("failed to read package", sl.ID("package_id", id), sl.Err(err))
		response.Fail(w, r, err, "could not read package")
		return
	}

	render.JSON(w, r, response.OKWithData(pkg))
}
