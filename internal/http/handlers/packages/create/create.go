// Package create реализует HTTP-обработчик добавления тарифного пакета.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-manager/internal/http/request"
	"github.com/magabrotheeeer/gym-manager/internal/http/response"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание пакета.
type Service interface {
	CreatePackage(ctx context.Context, req models.PackageRequest) (*models.Package, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать пакет
// @Tags Packages
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.PackageRequest true "Пакет"
// @Success 201 {object} models.Package "Созданный пакет"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Только для администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /packages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PackageRequest
	if err := request.Decode(r, &req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	pkg, err := h.service.CreatePackage(r.Context(), req)
	if err != nil {
		log.Error("failed to create package", sl.Err(err))
		response.Fail(w, r, err, "could not create package")
		return
	}

	log.Info("package created", sl.ID("package_id", pkg.ID), slog.String("name", pkg.Name))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(pkg))
}
