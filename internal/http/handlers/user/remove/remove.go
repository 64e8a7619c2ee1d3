// Package remove реализует HTTP-обработчик удаления сотрудника.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-manager/internal/http/request"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Delete(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить сотрудника
// @Description Администратор не может удалить собственную учётную запись.
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID сотрудника"
// @Success 200 {object} map[string]any "Сотрудник удалён"
// @Failure 403 {object} response.ErrorResponse "Запись не является сотрудником"
// @Failure 404 {object} response.ErrorResponse "Сотрудник не найден"
// @Failure 409 {object} response.ErrorResponse "Попытка удалить себя"
// @Router /users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"
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

	if p, ok := middlewarectx.PrincipalFrom(r.Context()); ok && p.UserID == id {
		log.Warn("attempt to delete own account", sl.ID("user_id", id))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("cannot delete own account"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Error("failed to delete user", sl.ID("user_id", id), sl.Err(err))
		response.Fail(w, r, err, "could not delete user")
		return
	}

	log.Info("user deleted", sl.ID("user_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted_id": id,
	}))
}
