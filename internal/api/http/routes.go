package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-history/internal/store"
	"github.com/i474232898/weather-history/internal/weather"
)

var validate = validator.New()

// HistoryReader exposes the records of a history store.
type HistoryReader interface {
	Records() ([]store.HistoryRecord, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, history HistoryReader) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseLookupQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		w, err := service.Lookup(c.UserContext(), q.Address)
		if err != nil {
			switch {
			case errors.Is(err, weather.ErrCoordinates):
				return fiber.NewError(fiber.StatusBadGateway, "failed to resolve address coordinates")
			case errors.Is(err, weather.ErrWeatherService):
				return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
			case errors.Is(err, weather.ErrHistoryWrite):
				return fiber.NewError(fiber.StatusInternalServerError, "failed to record weather history")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "weather lookup failed")
		}

		return c.JSON(newWeatherResponse(w))
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		records, err := history.Records()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
		}

		return c.JSON(fiber.Map{
			"count":   len(records),
			"records": records,
		})
	})
}

// lookupQuery holds query parameters of the weather endpoint.
type lookupQuery struct {
	Address string `validate:"required"`
}

func parseLookupQuery(c *fiber.Ctx) (lookupQuery, error) {
	var q lookupQuery

	q.Address = strings.TrimSpace(c.Query("address"))

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

type weatherResponse struct {
	City         string `json:"city"`
	TemperatureC int    `json:"temperatureC"`
	Condition    string `json:"condition"`
	Label        string `json:"label"`
	Sunrise      string `json:"sunrise"`
	Sunset       string `json:"sunset"`
	Formatted    string `json:"formatted"`
}

func newWeatherResponse(w weather.Weather) weatherResponse {
	return weatherResponse{
		City:         w.City,
		TemperatureC: int(w.Temperature),
		Condition:    string(w.Condition),
		Label:        w.Condition.Label(),
		Sunrise:      w.Sunrise.Format(weather.TimeOfDayLayout),
		Sunset:       w.Sunset.Format(weather.TimeOfDayLayout),
		Formatted:    weather.Format(w),
	}
}
