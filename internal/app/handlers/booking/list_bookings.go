package booking

import (
	"context"
	"log/slog"
	"time"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/queries"
	"roomdesk/internal/app/uow"
	domainrooms "roomdesk/internal/domain/rooms"
)

const listBookingsKey = "booking.list"

type ListBookingsQuery struct{}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Images     policies.ImageResolver
	Now        func() time.Time
	Logger     *slog.Logger
}

func (h *ListBookingsHandler) Handle(ctx context.Context, _ ListBookingsQuery) (dto.BookingCollection, error) {
	unit, execCtx, cleanup, err := uow.Begin(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().List(execCtx)
	if err != nil {
		return dto.BookingCollection{}, err
	}

	nowUTC := now(h.Now)
	roomCache := make(map[domainrooms.RoomID]*domainrooms.Room)
	items := make([]dto.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		room, err := loadRoom(execCtx, unit.Rooms(), b.RoomID, roomCache)
		if err != nil && h.Logger != nil {
			h.Logger.Warn("room snapshot missing for booking", "booking_id", b.ID, "room_id", b.RoomID, "error", err)
		}
		items = append(items, dto.MapBookingSummary(b, room, policies.RoomImageURL(execCtx, h.Images, h.Logger, room), nowUTC))
	}
	return dto.BookingCollection{Items: items}, nil
}

func loadRoom(ctx context.Context, repo domainrooms.Repository, id domainrooms.RoomID, cache map[domainrooms.RoomID]*domainrooms.Room) (*domainrooms.Room, error) {
	if room, ok := cache[id]; ok {
		return room, nil
	}
	room, err := repo.ByID(ctx, id)
	if err != nil {
		cache[id] = nil
		return nil, err
	}
	cache[id] = room
	return room, nil
}

var _ queries.Handler[ListBookingsQuery, dto.BookingCollection] = (*ListBookingsHandler)(nil)
