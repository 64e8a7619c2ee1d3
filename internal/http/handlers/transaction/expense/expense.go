// Package expense реализует HTTP-обработчик записи расхода.
// Сумма передаётся положительной и сохраняется со знаком минус.
package expense

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

// Service описывает запись расхода.
type Service interface {
	RecordExpense(ctx context.Context, req models.ExpenseRequest) (*models.Transaction, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Записать расход
// @Tags Transactions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ExpenseRequest true "Расход"
// @Success 201 {object} models.Transaction "Запись журнала"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /expenses [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.expense"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ExpenseRequest
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

	tx, err := h.service.RecordExpense(r.Context(), req)
	if err != nil {
		log.Error("failed to record expense", sl.Err(err))
		response.Fail(w, r, err, "could not record expense")
		return
	}

	log.Info("expense recorded", sl.ID("transaction_id", tx.ID), slog.String("category", req.Category))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(tx))
}
