// Package request разбирает входные данные HTTP-запросов: JSON-тело,
// параметры пути и строки запроса.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/gym-manager/internal/lib/period"
)

// ErrMissingID возвращается, если в пути нет идентификатора.
var ErrMissingID = errors.New("id is missing in url")

// Decode читает JSON-тело запроса в v. Неизвестные поля считаются ошибкой.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ID возвращает параметр {id} из маршрута chi.
func ID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return "", ErrMissingID
	}
	return id, nil
}

// Int читает целочисленный параметр строки запроса. Отсутствующий параметр даёт def.
func Int(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("query parameter %s must be a positive integer", name)
	}
	return v, nil
}

// DateRange читает параметры start и end (YYYY-MM-DD) в часовом поясе loc.
// День end включается целиком. Без параметров берётся текущий месяц.
func DateRange(r *http.Request, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	q := r.URL.Query()
	start := period.StartOfMonth(now.In(loc))
	end := period.EndOfMonth(now.In(loc))

	if raw := q.Get("start"); raw != "" {
		t, err := period.ParseDate(raw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
		}
		start = t
	}
	if raw := q.Get("end"); raw != "" {
		t, err := period.ParseDate(raw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
		end = period.EndOfDay(t)
	}
	return start, end, nil
}
