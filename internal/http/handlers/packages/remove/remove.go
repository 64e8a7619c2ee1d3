// Package remove реализует HTTP-обработчик удаления пакета.
// Пакет с действующими подписками удалить нельзя.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/request"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	DeletePackage(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить пакет
// @Tags Packages
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID пакета"
// @Success 200 {object} map[string]any "Пакет удалён"
// @Failure 404 {object} response.ErrorResponse "Пакет не найден"
// @Failure 409 {object} response.ErrorResponse "Пакет используется"
// @Router /packages/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.remove"
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

	if err := h.service.DeletePackage(r.Context(), id); err != nil {
		log.Error("failed to delete package", sl.ID("package_id", id), sl.Err(err))
		response.Fail(w, r, err, "could not delete package")
		return
	}

	log.Info("package deleted", sl.ID("package_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted_id": id,
	}))
}
