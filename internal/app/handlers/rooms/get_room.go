package rooms

import (
	"context"
	"log/slog"
	"strings"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/queries"
	"roomdesk/internal/app/uow"
	domainrooms "roomdesk/internal/domain/rooms"
)

const getRoomKey = "rooms.get"

type GetRoomQuery struct {
	RoomID string
}

func (q GetRoomQuery) Key() string { return getRoomKey }

type GetRoomHandler struct {
	UoWFactory uow.UoWFactory
	Images     policies.ImageResolver
	Logger     *slog.Logger
}

func (h *GetRoomHandler) Handle(ctx context.Context, q GetRoomQuery) (dto.RoomCard, error) {
	id := strings.TrimSpace(q.RoomID)
	if id == "" {
		return dto.RoomCard{}, domainrooms.ErrIDRequired
	}
	unit, execCtx, cleanup, err := uow.Begin(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.RoomCard{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	room, err := unit.Rooms().ByID(execCtx, domainrooms.RoomID(id))
	if err != nil {
		return dto.RoomCard{}, err
	}
	return dto.MapRoomCard(room, policies.RoomImageURL(execCtx, h.Images, h.Logger, room)), nil
}

var _ queries.Handler[GetRoomQuery, dto.RoomCard] = (*GetRoomHandler)(nil)
