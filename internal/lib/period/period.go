// Package period содержит функции календарной арифметики для подписок и отчётов:
// разницу в целых днях, границы дня и месяца, ключи дат.
package period

import (
	"fmt"
	"time"
)

// DateLayout формат дат во входящих запросах и ключах отчётов.
const DateLayout = "2006-01-02"

// DaysBetween возвращает количество целых дней от from до to.
// Дробная часть отбрасывается в сторону нуля, поэтому 4.5 дня дают 4, а -0.5 дня дают 0.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// AddDays сдвигает дату на n календарных дней.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfDay возвращает полночь того же дня в часовом поясе t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay возвращает последнюю наносекунду того же дня.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfMonth возвращает первое число месяца, 00:00.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth возвращает последнюю наносекунду месяца.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// DateKey возвращает календарную дату в формате YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate разбирает дату YYYY-MM-DD как полночь в часовом поясе loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	const op = "period.ParseDate"
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}
