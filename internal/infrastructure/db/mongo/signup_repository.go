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

const collectionSignupRequests = "signup_requests"

// SignupRequestRepository implements ports.SignupRequestRepository on MongoDB
// with a unique index on email.
type SignupRequestRepository struct {
	col *mongo.Collection
}

func NewSignupRequestRepository(db *mongo.Database) *SignupRequestRepository {
	return &SignupRequestRepository{col: db.Collection(collectionSignupRequests)}
}

type signupRequestDoc struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	FullName     string `bson:"full_name"`
	Note         string `bson:"note,omitempty"`
	PasswordHash string `bson:"password_hash"`
	Status       string `bson:"status"`
	CreatedAt    int64  `bson:"created_at"`
	DecidedAt    *int64 `bson:"decided_at,omitempty"`
	DecidedByID  string `bson:"decided_by_id,omitempty"`
	DecisionNote string `bson:"decision_note,omitempty"`
}

func toSignupRequestDoc(r *domain.SignupRequest) signupRequestDoc {
	d := signupRequestDoc{
		ID:           r.ID,
		Email:        r.Email,
		FullName:     r.FullName,
		Note:         r.Note,
		PasswordHash: r.PasswordHash,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt.Unix(),
		DecidedByID:  r.DecidedByID,
		DecisionNote: r.DecisionNote,
	}
	if r.DecidedAt != nil {
		ts := r.DecidedAt.Unix()
		d.DecidedAt = &ts
	}
	return d
}

func (d signupRequestDoc) toDomain() *domain.SignupRequest {
	r := &domain.SignupRequest{
		ID:           d.ID,
		Email:        d.Email,
		FullName:     d.FullName,
		Note:         d.Note,
		PasswordHash: d.PasswordHash,
		Status:       domain.RequestStatus(d.Status),
		CreatedAt:    unixToTime(d.CreatedAt),
		DecidedByID:  d.DecidedByID,
		DecisionNote: d.DecisionNote,
	}
	if d.DecidedAt != nil {
		ts := unixToTime(*d.DecidedAt)
		r.DecidedAt = &ts
	}
	return r
}

func (r *SignupRequestRepository) Create(ctx context.Context, req *domain.SignupRequest) (*domain.SignupRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toSignupRequestDoc(req)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert signup request: %w", err)
	}
	return req, nil
}

func (r *SignupRequestRepository) FindByID(ctx context.Context, id string) (*domain.SignupRequest, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *SignupRequestRepository) FindByEmail(ctx context.Context, email string) (*domain.SignupRequest, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *SignupRequestRepository) findOne(ctx context.Context, filter bson.M) (*domain.SignupRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d signupRequestDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find signup request: %w", err)
	}
	return d.toDomain(), nil
}

// Update replaces the mutable decision fields of the request in one write.
func (r *SignupRequestRepository) Update(ctx context.Context, req *domain.SignupRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toSignupRequestDoc(req)
	update := bson.M{
		"$set": bson.M{
			"status":        doc.Status,
			"decided_by_id": doc.DecidedByID,
			"decision_note": doc.DecisionNote,
			"decided_at":    doc.DecidedAt,
		},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("update signup request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// List returns requests newest-first, optionally filtered by status.
func (r *SignupRequestRepository) List(ctx context.Context, status domain.RequestStatus) ([]*domain.SignupRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list signup requests: %w", err)
	}
	defer cur.Close(ctx)

	var reqs []*domain.SignupRequest
	for cur.Next(ctx) {
		var d signupRequestDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode signup request: %w", err)
		}
		reqs = append(reqs, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list signup requests: %w", err)
	}
	return reqs, nil
}

func (r *SignupRequestRepository) Stats(ctx context.Context) (*domain.RequestStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &domain.RequestStats{}
	counts := []struct {
		status domain.RequestStatus
		dest   *int64
	}{
		{domain.StatusPending, &stats.Pending},
		{domain.StatusApproved, &stats.Approved},
		{domain.StatusRejected, &stats.Rejected},
	}
	for _, c := range counts {
		n, err := r.col.CountDocuments(ctx, bson.M{"status": string(c.status)})
		if err != nil {
			return nil, fmt.Errorf("count %s requests: %w", c.status, err)
		}
		*c.dest = n
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

// EnsureIndexes creates the unique email index duplicate submissions rely on.
func (r *SignupRequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create signup request indexes: %w", err)
	}
	return nil
}
