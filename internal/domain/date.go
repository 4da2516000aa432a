package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate — строка не является корректной календарной датой.
var ErrInvalidDate = errors.New("invalid calendar date")

// CalendarDate — дата без времени и часового пояса.
// На границе с внешним API сериализуется как DD.MM.YYYY.
// Нулевое значение означает «дата не задана».
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate — дата из компонент; ошибка, если такой даты не существует.
func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	if year < 1 || year > 9999 {
		return CalendarDate{}, fmt.Errorf("%w: year %d out of range", ErrInvalidDate, year)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CalendarDate{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// DateOf — календарная дата момента t в его часовом поясе.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseCalendarDate — разбор формата API «DD.MM.YYYY» (день и месяц допускаются однозначными).
func ParseCalendarDate(s string) (CalendarDate, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	day, dErr := strconv.Atoi(parts[0])
	month, mErr := strconv.Atoi(parts[1])
	year, yErr := strconv.Atoi(parts[2])
	if dErr != nil || mErr != nil || yErr != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewCalendarDate(year, time.Month(month), day)
}

// ParseISODate — разбор «YYYY-MM-DD» (формат <input type="date">).
func ParseISODate(s string) (CalendarDate, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// ParseAnyDate — принимает и «DD.MM.YYYY», и «YYYY-MM-DD».
func ParseAnyDate(s string) (CalendarDate, error) {
	if strings.Contains(s, "-") {
		return ParseISODate(s)
	}
	return ParseCalendarDate(s)
}

func (d CalendarDate) IsZero() bool { return d == CalendarDate{} }

// String — формат API «DD.MM.YYYY»; пустая строка для нулевой даты.
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

// ISO — «YYYY-MM-DD».
func (d CalendarDate) ISO() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) Weekday() time.Weekday { return d.Time().Weekday() }

// IsWeekend — суббота или воскресенье.
func (d CalendarDate) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
	}
	if strings.TrimSpace(s) == "" {
		*d = CalendarDate{}
		return nil
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Timestamp — момент времени из API. Сервер присылает created_at то с зоной,
// то без неё, поэтому разбираем несколько форматов.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		// null / не строка — считаем, что времени нет.
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{parsed}
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
