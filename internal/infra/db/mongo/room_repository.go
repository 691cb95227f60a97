package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrooms "roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/money"
)

const roomsCollection = "rooms"

// RoomRepository reads the room catalog. Documents are ordered by position.
type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection(roomsCollection)}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrooms.ErrRoomNotFound
		}
		return nil, err
	}
	return doc.toRoom()
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainrooms.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domainrooms.Room
	for cur.Next(ctx) {
		var doc roomDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		room, err := doc.toRoom()
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Seed upserts rooms in order, keeping their position. Used to bootstrap an
// empty catalog from fixtures.
func (r *RoomRepository) Seed(ctx context.Context, rooms []*domainrooms.Room) error {
	for i, room := range rooms {
		doc := newRoomDocument(room, i)
		_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed room %s: %w", room.ID, err)
		}
	}
	return nil
}

// Count reports how many rooms the catalog holds.
func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

type roomDocument struct {
	ID           string   `bson:"_id"`
	Position     int      `bson:"position"`
	Name         string   `bson:"name"`
	Category     string   `bson:"category"`
	Capacity     int      `bson:"capacity"`
	NightlyCents int64    `bson:"nightly_cents"`
	Currency     string   `bson:"currency"`
	Amenities    []string `bson:"amenities"`
	Available    bool     `bson:"available"`
	Description  string   `bson:"description"`
	Image        string   `bson:"image"`
}

func newRoomDocument(room *domainrooms.Room, position int) roomDocument {
	return roomDocument{
		ID:           string(room.ID),
		Position:     position,
		Name:         room.Name,
		Category:     string(room.Category),
		Capacity:     room.Capacity,
		NightlyCents: room.Nightly.Amount,
		Currency:     room.Nightly.Currency,
		Amenities:    append([]string(nil), room.Amenities...),
		Available:    room.Available,
		Description:  room.Description,
		Image:        room.Image,
	}
}

func (d roomDocument) toRoom() (*domainrooms.Room, error) {
	nightly, err := money.New(d.NightlyCents, d.Currency)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", d.ID, err)
	}
	return domainrooms.NewRoom(domainrooms.CreateRoomParams{
		ID:          domainrooms.RoomID(d.ID),
		Name:        d.Name,
		Category:    domainrooms.Category(d.Category),
		Capacity:    d.Capacity,
		Nightly:     nightly,
		Amenities:   d.Amenities,
		Available:   d.Available,
		Description: d.Description,
		Image:       d.Image,
	})
}

var _ domainrooms.Repository = (*RoomRepository)(nil)
