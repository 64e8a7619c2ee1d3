// Package sale реализует HTTP-обработчик продажи товара на ресепшене.
//
// Продажа уменьшает остаток (кроме доставки) и записывает доход в журнал одной операцией.
package sale

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

// Service описывает оформление продажи.
type Service interface {
	RecordSale(ctx context.Context, productID string, req models.SaleRequest) (*models.Sale, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Продать товар
// @Tags Products
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param request body models.SaleRequest true "Продажа"
// @Success 201 {object} models.Sale "Товар и запись журнала"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 409 {object} response.ErrorResponse "Недостаточно товара"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /products/{id}/sale [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.sale"
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

	var req models.SaleRequest
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

	sale, err := h.service.RecordSale(r.Context(), id, req)
	if err != nil {
		log.Error("failed to record sale", sl.ID("product_id", id), slog.Int("quantity", req.Quantity), sl.Err(err))
		response.Fail(w, r, err, "could not record sale")
		return
	}

	log.Info("sale recorded",
		sl.ID("product_id", id),
		sl.ID("transaction_id", sale.Transaction.ID),
		slog.Float64("amount", sale.Transaction.Amount))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(sale))
}
