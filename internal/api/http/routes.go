package httpapi

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

//go:embed templates/dashboard.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

// Dashboard is the set of UI actions the HTTP surface exposes.
type Dashboard interface {
	AddCity(ctx context.Context, city weather.SelectedCity) (bool, error)
	UpdateForecasts(ctx context.Context) (int, error)
	Snapshot(ctx context.Context) (dashboard.Snapshot, error)
}

// StatsSource reports provider request outcomes for the health endpoint.
type StatsSource interface {
	Stats() (weather.ProviderStats, bool)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, dash Dashboard, stats StatsSource) {
	app.Get("/health", func(c *fiber.Ctx) error {
		resp := fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		}
		if stats != nil {
			if s, ok := stats.Stats(); ok {
				resp["provider"] = s
			}
		}
		return c.JSON(resp)
	})

	app.Get("/", func(c *fiber.Ctx) error {
		snap, err := dash.Snapshot(c.UserContext())
		if err != nil {
			return dashboardError(err)
		}

		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, snap); err != nil {
			log.Printf("ERROR: rendering dashboard: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render dashboard")
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	actions := app.Group("/actions")

	actions.Post("/refresh", func(c *fiber.Ctx) error {
		if _, err := dash.UpdateForecasts(c.UserContext()); err != nil {
			return dashboardError(err)
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	actions.Post("/add-city", func(c *fiber.Ctx) error {
		req, err := parseAddCity(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if _, err := dash.AddCity(c.UserContext(), req.toCity()); err != nil {
			return dashboardError(err)
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/cards", func(c *fiber.Ctx) error {
		snap, err := dash.Snapshot(c.UserContext())
		if err != nil {
			return dashboardError(err)
		}
		return c.JSON(fiber.Map{
			"loading": snap.Loading,
			"cards":   snap.Cards,
		})
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		snap, err := dash.Snapshot(c.UserContext())
		if err != nil {
			return dashboardError(err)
		}
		return c.JSON(snap.Cities)
	})

	v1.Post("/cities", func(c *fiber.Ctx) error {
		req, err := parseAddCity(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		added, err := dash.AddCity(c.UserContext(), req.toCity())
		if err != nil {
			return dashboardError(err)
		}

		status := fiber.StatusOK
		if added {
			status = fiber.StatusAccepted
		}
		return c.Status(status).JSON(fiber.Map{
			"city":  req.toCity(),
			"added": added,
		})
	})

	v1.Post("/forecasts/refresh", func(c *fiber.Ctx) error {
		n, err := dash.UpdateForecasts(c.UserContext())
		if err != nil {
			return dashboardError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"refreshing": n,
		})
	})
}

// addCityRequest holds the body of an add-city action (JSON or form).
type addCityRequest struct {
	Key   string `json:"key" form:"key" validate:"required,max=200"`
	Label string `json:"label" form:"label" validate:"max=200"`
}

func (r addCityRequest) toCity() weather.SelectedCity {
	return weather.SelectedCity{
		Key:   r.Key,
		Label: r.Label,
	}
}

func parseAddCity(c *fiber.Ctx) (addCityRequest, error) {
	var req addCityRequest
	if err := c.BodyParser(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

func dashboardError(err error) error {
	if errors.Is(err, dashboard.ErrStopped) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "dashboard is shutting down")
	}
	log.Printf("ERROR: dashboard action failed: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "dashboard action failed")
}

// ErrorHandler renders errors as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
