package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/model"
    "github.com/hostaluna/room-rental/internal/repository"
)

// TypeHandler manages room categories.
type TypeHandler struct {
    Types *repository.TypeRepo
}

// NewTypeHandler constructs a TypeHandler.
func NewTypeHandler(types *repository.TypeRepo) *TypeHandler {
    if types == nil {
        panic("nil repository passed to NewTypeHandler")
    }
    return &TypeHandler{Types: types}
}

func typeJSON(t *model.RoomType) echo.Map {
    return echo.Map{
        "id":          t.ID,
        "title":       t.Title,
        "description": t.Description,
        "increment":   t.Increment.String(),
    }
}

type typeRequest struct {
    Title       string `json:"title"`
    Description string `json:"description"`
    Increment   string `json:"increment"`
}

func (b typeRequest) validate(c echo.Context) (*model.RoomType, error) {
    if b.Title == "" {
        return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
    }
    increment := decimal.Zero
    if b.Increment != "" {
        var err error
        if increment, err = decimal.NewFromString(b.Increment); err != nil || increment.IsNegative() {
            return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid increment"})
        }
    }
    return &model.RoomType{Title: b.Title, Description: b.Description, Increment: increment}, nil
}

// List handles GET /v1/types.
func (h *TypeHandler) List(c echo.Context) error {
    types, err := h.Types.List(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    out := make([]echo.Map, 0, len(types))
    for i := range types {
        out = append(out, typeJSON(&types[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"types": out})
}

// Create handles POST /v1/types.
func (h *TypeHandler) Create(c echo.Context) error {
    var body typeRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    t, httpErr := body.validate(c)
    if httpErr != nil {
        return httpErr
    }
    if err := h.Types.Create(c.Request().Context(), t); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, typeJSON(t))
}

// Update handles PUT /v1/types/:id.
func (h *TypeHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type id"})
    }
    var body typeRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    t, httpErr := body.validate(c)
    if httpErr != nil {
        return httpErr
    }
    t.ID = id
    if err := h.Types.Update(c.Request().Context(), t); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, typeJSON(t))
}

// Delete handles DELETE /v1/types/:id.  Types still referenced by
// rooms cannot be deleted.
func (h *TypeHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type id"})
    }
    if err := h.Types.Delete(c.Request().Context(), id); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
