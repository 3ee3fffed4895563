package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/booking"
    "github.com/hostaluna/room-rental/internal/model"
    "github.com/hostaluna/room-rental/internal/repository"
)

// SettingHandler exposes the tenant pricing configuration.
type SettingHandler struct {
    Settings *repository.SettingRepo
}

// NewSettingHandler constructs a SettingHandler.
func NewSettingHandler(settings *repository.SettingRepo) *SettingHandler {
    if settings == nil {
        panic("nil repository passed to NewSettingHandler")
    }
    return &SettingHandler{Settings: settings}
}

func settingJSON(s model.Setting) echo.Map {
    return echo.Map{
        "id":            s.ID,
        "price_day":     s.PriceDay.String(),
        "price_hour":    s.PriceHour.String(),
        "time_minimum":  s.TimeMinimum,
        "active_impost": s.ActiveImpost,
        "impost":        s.Impost.String(),
    }
}

// Get handles GET /v1/settings.
func (h *SettingHandler) Get(c echo.Context) error {
    s, err := h.Settings.Get(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, settingJSON(s))
}

// Update handles PUT /v1/settings.  Rates travel as decimal strings;
// the cached copy is invalidated so the next booking sees the new
// prices.
func (h *SettingHandler) Update(c echo.Context) error {
    var body struct {
        PriceDay     string `json:"price_day"`
        PriceHour    string `json:"price_hour"`
        TimeMinimum  string `json:"time_minimum"`
        ActiveImpost bool   `json:"active_impost"`
        Impost       string `json:"impost"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    current, err := h.Settings.Get(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    next := current
    if body.PriceDay != "" {
        if next.PriceDay, err = decimal.NewFromString(body.PriceDay); err != nil || next.PriceDay.IsNegative() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price_day"})
        }
    }
    if body.PriceHour != "" {
        if next.PriceHour, err = decimal.NewFromString(body.PriceHour); err != nil || next.PriceHour.IsNegative() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price_hour"})
        }
    }
    if body.TimeMinimum != "" {
        if !booking.ValidClock(body.TimeMinimum) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time_minimum"})
        }
        next.TimeMinimum = body.TimeMinimum
    }
    next.ActiveImpost = body.ActiveImpost
    if body.Impost != "" {
        if next.Impost, err = decimal.NewFromString(body.Impost); err != nil || next.Impost.IsNegative() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid impost"})
        }
    }

    if err := h.Settings.Update(c.Request().Context(), next); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, settingJSON(next))
}
