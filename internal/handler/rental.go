package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/service"
)

// RentalHandler exposes the rental lifecycle over HTTP.  All decisions
// live in the service; the handler only shapes requests and responses.
type RentalHandler struct {
    Rentals *service.RentalService
}

// NewRentalHandler constructs a RentalHandler.
func NewRentalHandler(rentals *service.RentalService) *RentalHandler {
    if rentals == nil {
        panic("nil service passed to NewRentalHandler")
    }
    return &RentalHandler{Rentals: rentals}
}

// rentalRequest is the JSON body for creating a stay or reservation.
type rentalRequest struct {
    ClientID      uint64   `json:"client_id"`
    IdentityCard  string   `json:"identity_card"`
    MoveID        *uint64  `json:"move_id"`
    Type          string   `json:"type"`
    ArrivalDate   string   `json:"arrival_date"`
    ArrivalTime   string   `json:"arrival_time"`
    DepartureDate string   `json:"departure_date"`
    DepartureTime string   `json:"departure_time"`
    Reservation   bool     `json:"reservation"`
    State         string   `json:"state"`
    Discount      string   `json:"discount"`
    RoomIDs       []uint64 `json:"room_ids"`
}

func (b rentalRequest) toInput() (service.CreateRentalInput, error) {
    discount := decimal.Zero
    if b.Discount != "" {
        var err error
        if discount, err = decimal.NewFromString(b.Discount); err != nil {
            return service.CreateRentalInput{}, err
        }
    }
    return service.CreateRentalInput{
        ClientID:      b.ClientID,
        IdentityCard:  b.IdentityCard,
        MoveID:        b.MoveID,
        Type:          b.Type,
        ArrivalDate:   b.ArrivalDate,
        ArrivalTime:   b.ArrivalTime,
        DepartureDate: b.DepartureDate,
        DepartureTime: b.DepartureTime,
        Reservation:   b.Reservation,
        State:         b.State,
        Discount:      discount,
        RoomIDs:       b.RoomIDs,
    }, nil
}

// Create handles POST /v1/rentals.  The same endpoint books a stay
// starting now or, with reservation=true, a future reservation.
func (h *RentalHandler) Create(c echo.Context) error {
    var body rentalRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    in, err := body.toInput()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid discount"})
    }
    r, err := h.Rentals.CreateRental(c.Request().Context(), in)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, rentalJSON(r))
}

// List handles GET /v1/rentals?from=&to=.
func (h *RentalHandler) List(c echo.Context) error {
    rs, err := h.Rentals.ListRentals(c.Request().Context(), c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"rentals": rentalsJSON(rs)})
}

// Get handles GET /v1/rentals/:id.
func (h *RentalHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
    }
    d, err := h.Rentals.GetRental(c.Request().Context(), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, detailJSON(d))
}

// Renew handles POST /v1/rentals/:id/renew.  It extends an active hour
// stay's departure by the requested "HH:MM:SS" duration.
func (h *RentalHandler) Renew(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
    }
    var body struct {
        ExtraHour string `json:"extra_hour"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    r, err := h.Rentals.Renew(c.Request().Context(), id, body.ExtraHour)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, rentalJSON(r))
}

// CheckoutRoom handles POST /v1/rentals/:id/rooms/:room_id/checkout.
// One room checks out at a time; closing the last one ends the whole
// rental and cuts the receipt.
func (h *RentalHandler) CheckoutRoom(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
    }
    roomID, err := strconv.ParseUint(c.Param("room_id"), 10, 64)
    if err != nil || roomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    r, err := h.Rentals.CheckoutRoom(c.Request().Context(), id, roomID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, rentalJSON(r))
}

// Delete handles DELETE /v1/rentals/:id, cancelling a booking and
// freeing any rooms it still holds.
func (h *RentalHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
    }
    if err := h.Rentals.DeleteRental(c.Request().Context(), id); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// AvailableByDate handles GET /v1/rooms/available/date?arrival_date=&departure_date=.
func (h *RentalHandler) AvailableByDate(c echo.Context) error {
    rooms, err := h.Rentals.AvailableRoomsByDate(c.Request().Context(),
        c.QueryParam("arrival_date"), c.QueryParam("departure_date"), 0)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": roomsJSON(rooms)})
}

// AvailableByHour handles GET /v1/rooms/available/hour?arrival_date=&arrival_time=&departure_time=.
func (h *RentalHandler) AvailableByHour(c echo.Context) error {
    rooms, err := h.Rentals.AvailableRoomsByHour(c.Request().Context(),
        c.QueryParam("arrival_date"), c.QueryParam("arrival_time"), c.QueryParam("departure_time"), 0)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": roomsJSON(rooms)})
}
