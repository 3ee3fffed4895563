package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/hostaluna/room-rental/internal/service"
)

// ReservationHandler exposes the reservation-specific operations:
// listing, rescheduling onto hour or day billing, and confirmation.
// Reservations are created through the rentals endpoint with
// reservation=true.
type ReservationHandler struct {
    Rentals *service.RentalService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(rentals *service.RentalService) *ReservationHandler {
    if rentals == nil {
        panic("nil service passed to NewReservationHandler")
    }
    return &ReservationHandler{Rentals: rentals}
}

// Create handles POST /v1/reservations.  It is the rentals create with
// the reservation flag forced on, so a front desk screen dedicated to
// reservations cannot accidentally book an immediate stay.
func (h *ReservationHandler) Create(c echo.Context) error {
    var body rentalRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Reservation = true
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

// List handles GET /v1/reservations?from=&to=.
func (h *ReservationHandler) List(c echo.Context) error {
    rs, err := h.Rentals.ListReservations(c.Request().Context(), c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": rentalsJSON(rs)})
}

// ExtendHours handles PUT /v1/reservations/:id/hours.  The reservation
// switches to hour billing with a new time window; an omitted departure
// time is derived from the tenant's minimum stay length.
func (h *ReservationHandler) ExtendHours(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var body struct {
        ArrivalDate   string   `json:"arrival_date"`
        ArrivalTime   string   `json:"arrival_time"`
        DepartureTime string   `json:"departure_time"`
        RoomIDs       []uint64 `json:"room_ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    r, err := h.Rentals.ExtendByHours(c.Request().Context(), id, service.ExtendHoursInput{
        ArrivalDate:   body.ArrivalDate,
        ArrivalTime:   body.ArrivalTime,
        DepartureTime: body.DepartureTime,
        RoomIDs:       body.RoomIDs,
    })
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, rentalJSON(r))
}

// ExtendDays handles PUT /v1/reservations/:id/days.  The reservation
// switches to day billing up to the given departure date; the departure
// time is pinned to noon.
func (h *ReservationHandler) ExtendDays(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var body struct {
        DepartureDate string   `json:"departure_date"`
        RoomIDs       []uint64 `json:"room_ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    r, err := h.Rentals.ExtendByDays(c.Request().Context(), id, service.ExtendDaysInput{
        DepartureDate: body.DepartureDate,
        RoomIDs:       body.RoomIDs,
    })
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, rentalJSON(r))
}

// RoomsByDate handles GET /v1/reservations/:id/rooms/date.  It lists
// rooms free for a whole-day window while ignoring the reservation's
// own occupancy, so a reschedule can keep its current rooms.
func (h *ReservationHandler) RoomsByDate(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    rooms, err := h.Rentals.AvailableRoomsByDate(c.Request().Context(),
        c.QueryParam("arrival_date"), c.QueryParam("departure_date"), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": roomsJSON(rooms)})
}

// RoomsByHour handles GET /v1/reservations/:id/rooms/hour, the
// hour-window counterpart of RoomsByDate.
func (h *ReservationHandler) RoomsByHour(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    rooms, err := h.Rentals.AvailableRoomsByHour(c.Request().Context(),
        c.QueryParam("arrival_date"), c.QueryParam("arrival_time"), c.QueryParam("departure_time"), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": roomsJSON(rooms)})
}

// Confirm handles POST /v1/reservations/:id/confirm, turning a
// reservation into an active stay once its arrival date has come.
func (h *ReservationHandler) Confirm(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    r, err := h.Rentals.ConfirmReservation(c.Request().Context(), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, rentalJSON(r))
}
