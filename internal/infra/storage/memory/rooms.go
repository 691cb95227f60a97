package memory

import (
	"context"
	"sync"

	domainrooms "roomdesk/internal/domain/rooms"
)

// RoomRepository keeps the catalog in seed order and hands out copies.
type RoomRepository struct {
	mu    sync.RWMutex
	order []domainrooms.RoomID
	items map[domainrooms.RoomID]*domainrooms.Room
}

func NewRoomRepository(seed ...*domainrooms.Room) *RoomRepository {
	repo := &RoomRepository{items: make(map[domainrooms.RoomID]*domainrooms.Room, len(seed))}
	for _, room := range seed {
		_ = repo.Save(context.Background(), room)
	}
	return repo
}

// ByID returns a copy of the room or rooms.ErrRoomNotFound.
func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, domainrooms.ErrRoomNotFound
	}
	return room.Copy(), nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrooms.Room, 0, len(r.order))
	for _, id := range r.order {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out = append(out, r.items[id].Copy())
	}
	return out, nil
}

// Save inserts or replaces a room. Replacement keeps the original position.
func (r *RoomRepository) Save(ctx context.Context, room *domainrooms.Room) error {
	if room == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[room.ID]; !exists {
		r.order = append(r.order, room.ID)
	}
	r.items[room.ID] = room.Copy()
	return nil
}

var _ domainrooms.Repository = (*RoomRepository)(nil)
