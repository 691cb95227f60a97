package booking

import (
	"context"
	"time"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/queries"
	"roomdesk/internal/app/uow"
	domainbooking "roomdesk/internal/domain/booking"
	domainrooms "roomdesk/internal/domain/rooms"
)

const quoteBookingKey = "booking.quote"

type QuoteBookingQuery struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

func (q QuoteBookingQuery) Key() string { return quoteBookingKey }

// QuoteBookingHandler prices a prospective stay without creating anything.
type QuoteBookingHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *QuoteBookingHandler) Handle(ctx context.Context, q QuoteBookingQuery) (dto.Quote, error) {
	unit, execCtx, cleanup, err := uow.Begin(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.Quote{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	room, err := unit.Rooms().ByID(execCtx, domainrooms.RoomID(q.RoomID))
	if err != nil {
		return dto.Quote{}, err
	}
	result, outcome := domainbooking.Quote(room, q.CheckIn, q.CheckOut, q.Guests, now(h.Now))
	if !outcome.OK() {
		return dto.Quote{}, &ValidationError{Outcome: outcome}
	}
	return dto.MapQuote(room.ID, q.CheckIn.UTC(), q.CheckOut.UTC(), q.Guests, result), nil
}

func now(clock func() time.Time) time.Time {
	if clock != nil {
		return clock().UTC()
	}
	return time.Now().UTC()
}

var _ queries.Handler[QuoteBookingQuery, dto.Quote] = (*QuoteBookingHandler)(nil)
