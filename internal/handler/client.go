package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/hostaluna/room-rental/internal/model"
    "github.com/hostaluna/room-rental/internal/repository"
)

// ClientHandler manages the guest registry.
type ClientHandler struct {
    Clients *repository.ClientRepo
}

// NewClientHandler constructs a ClientHandler.
func NewClientHandler(clients *repository.ClientRepo) *ClientHandler {
    if clients == nil {
        panic("nil repository passed to NewClientHandler")
    }
    return &ClientHandler{Clients: clients}
}

type clientRequest struct {
    Name         string  `json:"name"`
    IdentityCard string  `json:"identity_card"`
    Phone        *string `json:"phone"`
}

func (b clientRequest) validate(c echo.Context) (*model.Client, error) {
    if b.Name == "" || b.IdentityCard == "" {
        return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "name and identity_card are required"})
    }
    return &model.Client{Name: b.Name, IdentityCard: b.IdentityCard, Phone: b.Phone}, nil
}

// List handles GET /v1/clients.  An identity_card query parameter
// narrows the lookup to one guest.
func (h *ClientHandler) List(c echo.Context) error {
    ctx := c.Request().Context()
    if card := c.QueryParam("identity_card"); card != "" {
        cl, err := h.Clients.GetByIdentityCard(ctx, card)
        if err != nil {
            return fail(c, err)
        }
        return c.JSON(http.StatusOK, echo.Map{"clients": []echo.Map{clientJSON(cl)}})
    }
    clients, err := h.Clients.List(ctx)
    if err != nil {
        return fail(c, err)
    }
    out := make([]echo.Map, 0, len(clients))
    for i := range clients {
        out = append(out, clientJSON(&clients[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"clients": out})
}

// Get handles GET /v1/clients/:id.
func (h *ClientHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
    }
    cl, err := h.Clients.GetByID(c.Request().Context(), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, clientJSON(cl))
}

// Create handles POST /v1/clients.
func (h *ClientHandler) Create(c echo.Context) error {
    var body clientRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    cl, httpErr := body.validate(c)
    if httpErr != nil {
        return httpErr
    }
    if err := h.Clients.Create(c.Request().Context(), cl); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, clientJSON(cl))
}

// Update handles PUT /v1/clients/:id.
func (h *ClientHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
    }
    var body clientRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    cl, httpErr := body.validate(c)
    if httpErr != nil {
        return httpErr
    }
    cl.ID = id
    if err := h.Clients.Update(c.Request().Context(), cl); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, clientJSON(cl))
}
