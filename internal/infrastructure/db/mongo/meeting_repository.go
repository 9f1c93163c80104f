package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meetgate/meetgate/internal/core/domain"
)

const collectionMeetings = "meetings"

// MeetingRepository implements ports.MeetingRepository on MongoDB with a
// unique index on the room name.
type MeetingRepository struct {
	col *mongo.Collection
}

func NewMeetingRepository(db *mongo.Database) *MeetingRepository {
	return &MeetingRepository{col: db.Collection(collectionMeetings)}
}

type meetingDoc struct {
	ID        string `bson:"_id"`
	Room      string `bson:"room"`
	OwnerID   string `bson:"owner_id"`
	CreatedAt int64  `bson:"created_at"`
}

func (d meetingDoc) toDomain() *domain.Meeting {
	return &domain.Meeting{
		ID:        d.ID,
		Room:      d.Room,
		OwnerID:   d.OwnerID,
		CreatedAt: unixToTime(d.CreatedAt),
	}
}

func (r *MeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := meetingDoc{
		ID:        meeting.ID,
		Room:      meeting.Room,
		OwnerID:   meeting.OwnerID,
		CreatedAt: meeting.CreatedAt.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRoom
		}
		return nil, fmt.Errorf("insert meeting: %w", err)
	}
	return meeting, nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d meetingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("find meeting: %w", err)
	}
	return d.toDomain(), nil
}

func (r *MeetingRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer cur.Close(ctx)

	var meetings []*domain.Meeting
	for cur.Next(ctx) {
		var d meetingDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode meeting: %w", err)
		}
		meetings = append(meetings, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

// EnsureIndexes creates the unique room index.
func (r *MeetingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "room", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create meeting indexes: %w", err)
	}
	return nil
}
