package kreno

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

const availabilityEndpoint = "availability_api.php"

// apiSlot слот доступности в формате бэкенда
type apiSlot struct {
	AvailabilityID flexString `json:"availability_id"`
	UserID         flexString `json:"user_id" validate:"required"`
	AvailableDate  string     `json:"available_date" validate:"required,datetime=2006-01-02"`
	StartTime      string     `json:"start_time" validate:"required"`
}

func (a apiSlot) toModel() (model.AvailabilitySlot, error) {
	start, ok := calendar.NormalizeClock(a.StartTime)
	if !ok {
		return model.AvailabilitySlot{}, apperr.Malformed("availability start_time %q is not a time", a.StartTime)
	}

	slot := model.AvailabilitySlot{
		UserID:    a.UserID.String(),
		Date:      a.AvailableDate,
		StartTime: start,
	}
	if a.AvailabilityID != "" {
		id, err := strconv.ParseInt(a.AvailabilityID.String(), 10, 64)
		if err != nil {
			return model.AvailabilitySlot{}, apperr.Malformed("availability_id %q is not a number", a.AvailabilityID)
		}
		slot.ID = &id
	}
	return slot, nil
}

// AvailabilityRange необязательный диапазон дат выборки
type AvailabilityRange struct {
	From time.Time
	To   time.Time
}

// Availability возвращает отмеченные студентом слоты
func (c *Client) Availability(ctx context.Context, userID string, rng AvailabilityRange) ([]model.AvailabilitySlot, error) {
	query := url.Values{}
	query.Set("user_id", userID)
	if !rng.From.IsZero() {
		query.Set("start_date", rng.From.Format(calendar.DateLayout))
	}
	if !rng.To.IsZero() {
		query.Set("end_date", rng.To.Format(calendar.DateLayout))
	}

	env, err := c.call(ctx, request{endpoint: availabilityEndpoint, method: http.MethodGet, query: query})
	if err != nil {
		return nil, err
	}

	raw, err := list[apiSlot](c, env, "data")
	if err != nil {
		return nil, err
	}

	slots := make([]model.AvailabilitySlot, 0, len(raw))
	for _, a := range raw {
		slot, err := a.toModel()
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// AddAvailability создает слот и возвращает каноническую запись сервера
func (c *Client) AddAvailability(ctx context.Context, key model.SlotKey) (model.AvailabilitySlot, error) {
	env, err := c.call(ctx, request{endpoint: availabilityEndpoint, method: http.MethodPost, body: key})
	if err != nil {
		return model.AvailabilitySlot{}, err
	}

	raw, err := single[apiSlot](c, env, "data")
	if err != nil {
		return model.AvailabilitySlot{}, err
	}
	return raw.toModel()
}

// RemoveAvailability удаляет слот по ключу
func (c *Client) RemoveAvailability(ctx context.Context, key model.SlotKey) error {
	_, err := c.call(ctx, request{endpoint: availabilityEndpoint, method: http.MethodDelete, body: key})
	return err
}
