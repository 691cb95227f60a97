package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/middleware"
	"roomdesk/internal/app/outbox"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/uow"
	domainbooking "roomdesk/internal/domain/booking"
)

const requestBookingKey = "booking.request"

type RequestBookingCommand struct {
	CommandID       string
	Account         string
	Request         domainbooking.Request
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	Booking dto.BookingSummary `json:"booking"`
}

// RequestBookingHandler validates, prices and stores a booking. Confirmation
// waits ConfirmDelay; cancelling ctx during the wait abandons the booking.
type RequestBookingHandler struct {
	UoWFactory   uow.UoWFactory
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
	Images       policies.ImageResolver
	ConfirmDelay time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	req := cmd.Request
	if missing := req.Contact.MissingFields(); len(missing) > 0 {
		return nil, &ContactError{Fields: missing}
	}

	// Capacity and price are read at submission time, not from the quote.
	room, err := unit.Rooms().ByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.Available {
		return nil, ErrRoomUnavailable
	}
	nowUTC := now(h.Now)
	price, outcome := domainbooking.Quote(room, req.CheckIn, req.CheckOut, req.Guests, nowUTC)
	if !outcome.OK() {
		return nil, &ValidationError{Outcome: outcome}
	}

	if err := h.waitForConfirmation(ctx); err != nil {
		return nil, err
	}

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(cmd.CommandID),
		Room:      room,
		Account:   cmd.Account,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
		Contact:   req.Contact,
		Price:     price,
		CreatedAt: nowUTC,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), b.DrainEvents()); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "booking confirmed", "booking_id", b.ID, "room_id", room.ID, "nights", price.Nights, "total", price.Total.String())
	}
	return &RequestBookingResult{
		Booking: dto.MapBookingSummary(b, room, policies.RoomImageURL(ctx, h.Images, h.Logger, room), nowUTC),
	}, nil
}

func (h *RequestBookingHandler) waitForConfirmation(ctx context.Context) error {
	if h.ConfirmDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(h.ConfirmDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (h *RequestBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = RequestBookingCommand{}
