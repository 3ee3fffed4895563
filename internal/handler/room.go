package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/model"
    "github.com/hostaluna/room-rental/internal/repository"
)

// RoomHandler manages the room inventory.
type RoomHandler struct {
    Rooms       *repository.RoomRepo
    Types       *repository.TypeRepo
    Assignments *repository.AssignmentRepo
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *repository.RoomRepo, types *repository.TypeRepo, assignments *repository.AssignmentRepo) *RoomHandler {
    if rooms == nil || types == nil || assignments == nil {
        panic("nil repository passed to NewRoomHandler")
    }
    return &RoomHandler{Rooms: rooms, Types: types, Assignments: assignments}
}

type roomRequest struct {
    TypeID    uint64 `json:"type_id"`
    Number    string `json:"number"`
    State     string `json:"state"`
    Increment string `json:"increment"`
}

func (b roomRequest) validate(c echo.Context) (*model.Room, error) {
    if b.TypeID == 0 || b.Number == "" {
        return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "type_id and number are required"})
    }
    state := b.State
    if state == "" {
        state = model.RoomDisponible
    }
    if state != model.RoomDisponible && state != model.RoomOcupada && state != model.RoomMantenimiento {
        return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room state"})
    }
    increment := decimal.Zero
    if b.Increment != "" {
        var err error
        if increment, err = decimal.NewFromString(b.Increment); err != nil || increment.IsNegative() {
            return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid increment"})
        }
    }
    return &model.Room{TypeID: b.TypeID, Number: b.Number, State: state, Increment: increment}, nil
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
    rooms, err := h.Rooms.List(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": roomsJSON(rooms)})
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    room, err := h.Rooms.GetByID(c.Request().Context(), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, roomJSON(room))
}

// Create handles POST /v1/rooms.  A new room starts with its type's
// default increment unless one is given.
func (h *RoomHandler) Create(c echo.Context) error {
    var body roomRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    room, httpErr := body.validate(c)
    if httpErr != nil {
        return httpErr
    }
    ctx := c.Request().Context()
    t, err := h.Types.GetByID(ctx, room.TypeID)
    if err != nil {
        return fail(c, err)
    }
    if body.Increment == "" {
        room.Increment = t.Increment
    }
    if err := h.Rooms.Create(ctx, room); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, roomJSON(room))
}

// Update handles PUT /v1/rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    var body roomRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    room, httpErr := body.validate(c)
    if httpErr != nil {
        return httpErr
    }
    room.ID = id
    if err := h.Rooms.Update(c.Request().Context(), room); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, roomJSON(room))
}

// Delete handles DELETE /v1/rooms/:id.  A room with an open assignment
// cannot be removed; the occupying rental must check out first.
func (h *RoomHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    ctx := c.Request().Context()
    n, err := h.Assignments.OpenCountByRoom(ctx, id)
    if err != nil {
        return fail(c, err)
    }
    if n > 0 {
        return c.JSON(http.StatusConflict, echo.Map{"error": "the room is still occupied"})
    }
    if err := h.Rooms.Delete(ctx, id); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
