package dashboard

import (
	"context"
	"strings"
	"time"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/queries"
	"roomdesk/internal/app/uow"
	domainbooking "roomdesk/internal/domain/booking"
	domainrooms "roomdesk/internal/domain/rooms"
)

const summaryKey = "dashboard.summary"

// SummaryQuery asks for the header counters. Account is display-only.
type SummaryQuery struct {
	Account string
}

func (q SummaryQuery) Key() string { return summaryKey }

type SummaryHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *SummaryHandler) Handle(ctx context.Context, q SummaryQuery) (dto.Dashboard, error) {
	unit, execCtx, cleanup, err := uow.Begin(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.Dashboard{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	rooms, err := unit.Rooms().List(execCtx)
	if err != nil {
		return dto.Dashboard{}, err
	}
	bookings, err := unit.Bookings().List(execCtx)
	if err != nil {
		return dto.Dashboard{}, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	summary := domainbooking.Summarize(bookings, now)
	out := dto.Dashboard{
		Account:           strings.TrimSpace(q.Account),
		TotalBookings:     summary.Total,
		UpcomingBookings:  summary.Upcoming,
		CompletedBookings: summary.Completed,
		AvailableRooms:    domainrooms.CountAvailable(rooms),
	}
	if lowest, ok := domainrooms.LowestAvailableNightly(rooms); ok {
		m := dto.MapMoney(lowest)
		out.StartingFrom = &m
	}
	return out, nil
}

var _ queries.Handler[SummaryQuery, dto.Dashboard] = (*SummaryHandler)(nil)
