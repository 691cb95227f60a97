package policies

import (
	"context"
	"log/slog"

	domainrooms "roomdesk/internal/domain/rooms"
)

// ImageResolver turns an opaque room image reference into a URL a client can load.
type ImageResolver interface {
	ResolveImage(ctx context.Context, ref string) (string, error)
}

// PassthroughImages returns references unchanged.
type PassthroughImages struct{}

func (PassthroughImages) ResolveImage(_ context.Context, ref string) (string, error) {
	return ref, nil
}

// RoomImageURL resolves the room's image and falls back to the raw reference
// when resolution fails. A nil room yields "".
func RoomImageURL(ctx context.Context, images ImageResolver, logger *slog.Logger, room *domainrooms.Room) string {
	if room == nil {
		return ""
	}
	if images == nil || room.Image == "" {
		return room.Image
	}
	url, err := images.ResolveImage(ctx, room.Image)
	if err != nil {
		if logger != nil {
			logger.Warn("room image unresolved", "room_id", room.ID, "image", room.Image, "error", err)
		}
		return room.Image
	}
	return url
}

var _ ImageResolver = PassthroughImages{}
