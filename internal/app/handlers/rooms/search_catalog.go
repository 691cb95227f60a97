package rooms

import (
	"context"
	"log/slog"

	"roomdesk/internal/app/dto"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/queries"
	"roomdesk/internal/app/uow"
	domainrooms "roomdesk/internal/domain/rooms"
)

const searchCatalogKey = "rooms.catalog"

// SearchCatalogQuery carries raw filter input; values are parsed leniently.
type SearchCatalogQuery struct {
	Search       string
	Type         string
	Availability string
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

func (q SearchCatalogQuery) Criteria() domainrooms.Criteria {
	return domainrooms.Criteria{
		Search:       q.Search,
		Category:     domainrooms.ParseCategoryFilter(q.Type),
		Availability: domainrooms.ParseAvailabilityFilter(q.Availability),
	}
}

// SearchCatalogHandler filters the room catalog.
type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
	Images     policies.ImageResolver
	Logger     *slog.Logger
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.RoomCatalog, error) {
	unit, execCtx, cleanup, err := uow.Begin(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return dto.RoomCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	all, err := unit.Rooms().List(execCtx)
	if err != nil {
		return dto.RoomCatalog{}, err
	}
	criteria := q.Criteria()
	matches := domainrooms.Filter(all, criteria)

	items := make([]dto.RoomCard, 0, len(matches))
	for _, room := range matches {
		items = append(items, dto.MapRoomCard(room, policies.RoomImageURL(execCtx, h.Images, h.Logger, room)))
	}
	return dto.RoomCatalog{
		Items:   items,
		Filters: dto.MapCatalogFilters(criteria),
		Meta:    dto.CatalogMeta{Total: len(all), Count: len(items)},
	}, nil
}

var _ queries.Handler[SearchCatalogQuery, dto.RoomCatalog] = (*SearchCatalogHandler)(nil)
