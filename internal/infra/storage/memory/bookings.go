package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "roomdesk/internal/domain/booking"
)

// BookingRepository holds bookings for the lifetime of the process.
type BookingRepository struct {
	mu    sync.RWMutex
	seq   int
	items map[domainbooking.BookingID]bookingEntry
}

type bookingEntry struct {
	booking *domainbooking.Booking
	seq     int
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]bookingEntry)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return entry.booking.Copy(), nil
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	if booking == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, exists := r.items[booking.ID]
	if !exists {
		r.seq++
		entry.seq = r.seq
	}
	entry.booking = booking.Copy()
	r.items[booking.ID] = entry
	return nil
}

// List orders by creation time, newest first; insertion order breaks ties.
func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	entries := make([]bookingEntry, 0, len(r.items))
	for _, entry := range r.items {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.booking.CreatedAt.Equal(b.booking.CreatedAt) {
			return a.booking.CreatedAt.After(b.booking.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*domainbooking.Booking, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.booking.Copy())
	}
	return out, nil
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
