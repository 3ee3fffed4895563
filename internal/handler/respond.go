// Package handler contains the HTTP handlers.  Handlers bind and
// sanity-check the request shape, delegate every decision to the
// service layer, and translate engine errors into status codes:
// validation failures are 400 with a field map, room conflicts are 409,
// rejected lifecycle transitions are 422, missing resources are 404.
package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/hostaluna/room-rental/internal/booking"
    "github.com/hostaluna/room-rental/internal/model"
    "github.com/hostaluna/room-rental/internal/repository"
    "github.com/hostaluna/room-rental/internal/service"
)

// fail maps an engine or repository error onto an HTTP response.
func fail(c echo.Context, err error) error {
    var ve *booking.ValidationError
    if errors.As(err, &ve) {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error":  "validation failed",
            "fields": ve.Fields,
        })
    }
    var ce *booking.ConflictError
    if errors.As(err, &ce) {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":   ce.Error(),
            "room_id": ce.RoomID,
        })
    }
    var be *booking.BusinessRuleError
    if errors.As(err, &be) {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": be.Msg})
    }
    switch {
    case errors.Is(err, booking.ErrNotFound),
        errors.Is(err, repository.ErrRentalNotFound),
        errors.Is(err, repository.ErrRoomNotFound),
        errors.Is(err, repository.ErrClientNotFound),
        errors.Is(err, repository.ErrTypeNotFound),
        errors.Is(err, repository.ErrUserNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrTypeInUse):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// rentalJSON renders a rental for responses.  Dates go out as
// "2006-01-02", times of day as "HH:MM:SS" and money as strings, the
// same shapes the API accepts.
func rentalJSON(r *model.Rental) echo.Map {
    m := echo.Map{
        "id":            r.ID,
        "client_id":     r.ClientID,
        "type":          r.Type,
        "arrival_date":  r.ArrivalDate.Format(booking.DateLayout),
        "arrival_time":  r.ArrivalTime,
        "reservation":   r.Reservation,
        "checkout":      r.Checkout,
        "state":         r.State,
        "discount":      r.Discount.String(),
        "amount":        r.Amount.String(),
        "amount_impost": r.AmountImpost.String(),
        "amount_total":  r.AmountTotal.String(),
    }
    if r.MoveID != nil {
        m["move_id"] = *r.MoveID
    }
    if r.DepartureDate != nil {
        m["departure_date"] = r.DepartureDate.Format(booking.DateLayout)
    }
    if r.DepartureTime != nil {
        m["departure_time"] = *r.DepartureTime
    }
    if r.CheckoutDate != nil {
        m["checkout_date"] = r.CheckoutDate.Format(booking.DateLayout)
    }
    return m
}

func rentalsJSON(rs []model.Rental) []echo.Map {
    out := make([]echo.Map, 0, len(rs))
    for i := range rs {
        out = append(out, rentalJSON(&rs[i]))
    }
    return out
}

func assignmentJSON(a *model.RoomAssignment) echo.Map {
    m := echo.Map{
        "id":         a.ID,
        "rental_id":  a.RentalID,
        "room_id":    a.RoomID,
        "price_base": a.PriceBase.String(),
    }
    if a.CheckIn != nil {
        m["check_in"] = a.CheckIn.Format(booking.DateLayout)
    }
    if a.CheckOut != nil {
        m["check_out"] = a.CheckOut.Format(booking.DateLayout)
    }
    if a.CheckTimeIn != nil {
        m["check_timein"] = *a.CheckTimeIn
    }
    if a.CheckTimeOut != nil {
        m["check_timeout"] = *a.CheckTimeOut
    }
    return m
}

func detailJSON(d *service.RentalDetail) echo.Map {
    assigns := make([]echo.Map, 0, len(d.Assignments))
    for i := range d.Assignments {
        assigns = append(assigns, assignmentJSON(&d.Assignments[i]))
    }
    m := rentalJSON(&d.Rental)
    m["rooms"] = assigns
    m["timeout"] = d.Timeout
    if d.Client != nil {
        m["client"] = clientJSON(d.Client)
    }
    return m
}

func roomJSON(r *model.Room) echo.Map {
    return echo.Map{
        "id":        r.ID,
        "type_id":   r.TypeID,
        "number":    r.Number,
        "state":     r.State,
        "increment": r.Increment.String(),
    }
}

func roomsJSON(rs []model.Room) []echo.Map {
    out := make([]echo.Map, 0, len(rs))
    for i := range rs {
        out = append(out, roomJSON(&rs[i]))
    }
    return out
}

func clientJSON(cl *model.Client) echo.Map {
    m := echo.Map{
        "id":            cl.ID,
        "name":          cl.Name,
        "identity_card": cl.IdentityCard,
    }
    if cl.Phone != nil {
        m["phone"] = *cl.Phone
    }
    return m
}
