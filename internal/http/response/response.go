// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// kinds сопоставляет доменные ошибки со статусами HTTP. Порядок важен:
// первая подходящая по errors.Is запись выигрывает.
var kinds = []struct {
	err    error
	status int
}{
	{models.ErrUserNotFound, http.StatusNotFound},
	{models.ErrPackageNotFound, http.StatusNotFound},
	{models.ErrSubscriptionNotFound, http.StatusNotFound},
	{models.ErrProductNotFound, http.StatusNotFound},
	{models.ErrTransactionNotFound, http.StatusNotFound},
	{models.ErrNotFound, http.StatusNotFound},
	{models.ErrDuplicateActiveSubscription, http.StatusConflict},
	{models.ErrPackageInUse, http.StatusConflict},
	{models.ErrHasActiveSubscription, http.StatusConflict},
	{models.ErrUsernameTaken, http.StatusConflict},
	{models.ErrInsufficientStock, http.StatusConflict},
	{models.ErrInvalidScope, http.StatusForbidden},
	{models.ErrInvalidInput, http.StatusUnprocessableEntity},
	{models.ErrInvalidCredentials, http.StatusUnauthorized},
}

// StatusFromError возвращает HTTP-статус для ошибки сервиса.
// Неизвестные ошибки считаются внутренними.
func StatusFromError(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError возвращает текст доменной ошибки без префиксов обёрток.
// Для внутренних ошибок наружу уходит fallback.
func messageFromError(err error, fallback string) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err.Error()
		}
	}
	return fallback
}

// Fail пишет ответ с ошибкой сервиса, статус выбирается по виду ошибки.
func Fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	render.Status(r, StatusFromError(err))
	render.JSON(w, r, Error(messageFromError(err, fallback)))
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "gt", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be %s %s", err.Field(), comparison(err.ActualTag()), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters long", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "greater than or equal to"
}
