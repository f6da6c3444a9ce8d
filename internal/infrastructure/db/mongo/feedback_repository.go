package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

const collectionFeedback = "feedbacks"

type FeedbackRepository struct {
	col *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{col: db.Collection(collectionFeedback)}
}

type mongoFeedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Rating    int                `bson:"rating"`
	ImageURL  string             `bson:"imageUrl,omitempty"`
	Response  string             `bson:"response,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	UserName  string             `bson:"userName"`
	UserEmail string             `bson:"userEmail"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
}

func (mf mongoFeedback) toDomain() *domain.Feedback {
	f := &domain.Feedback{
		ID:        mf.ID.Hex(),
		Title:     mf.Title,
		Content:   mf.Content,
		Rating:    mf.Rating,
		ImageURL:  mf.ImageURL,
		Response:  mf.Response,
		UserID:    mf.UserID.Hex(),
		UserName:  mf.UserName,
		UserEmail: mf.UserEmail,
		CreatedAt: mf.CreatedAt.UTC(),
	}
	if mf.UpdatedAt != nil {
		t := mf.UpdatedAt.UTC()
		f.UpdatedAt = &t
	}
	return f
}

// Create inserts a new submission and returns it with its assigned id.
func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(f.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: invalid user id %q: %w", f.UserID, err)
	}

	doc := mongoFeedback{
		Title:     f.Title,
		Content:   f.Content,
		Rating:    f.Rating,
		ImageURL:  f.ImageURL,
		UserID:    userID,
		UserName:  f.UserName,
		UserEmail: f.UserEmail,
		CreatedAt: f.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert feedback: unexpected id type %T", res.InsertedID)
	}
	doc.ID = id
	return doc.toDomain(), nil
}

// List returns the submissions matching filter ordered by creation time.
func (r *FeedbackRepository) List(ctx context.Context, filter ports.FeedbackFilter) ([]*domain.Feedback, error) {
	query, ok := buildFeedbackQuery(filter)
	if !ok {
		return []*domain.Feedback{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(feedbackSort(filter.Sort)))
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.Feedback, 0)
	for cur.Next(ctx) {
		var mf mongoFeedback
		if err := cur.Decode(&mf); err != nil {
			return nil, fmt.Errorf("decode feedback: %w", err)
		}
		out = append(out, mf.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}

// UpdateResponse sets the response and updatedAt in one atomic write. A
// malformed id is reported as domain.ErrFeedbackNotFound.
func (r *FeedbackRepository) UpdateResponse(ctx context.Context, id, response string) (*domain.Feedback, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrFeedbackNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"response":  response,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mf mongoFeedback
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mf); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("update feedback response: %w", err)
	}
	return mf.toDomain(), nil
}

// EnsureIndexes creates the indexes used by the listings.
func (r *FeedbackRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "rating", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// buildFeedbackQuery translates a filter into a Mongo query. ok is false when
// the filter cannot match anything.
func buildFeedbackQuery(f ports.FeedbackFilter) (bson.M, bool) {
	query := bson.M{}

	if f.UserID != "" {
		oid, err := primitive.ObjectIDFromHex(f.UserID)
		if err != nil {
			return nil, false
		}
		query["userId"] = oid
	}
	if f.Rating != 0 {
		query["rating"] = f.Rating
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
			bson.M{"userName": pattern},
		}
	}
	return query, true
}

func feedbackSort(s domain.FeedbackSort) bson.D {
	dir := -1
	if s == domain.SortOldest {
		dir = 1
	}
	return bson.D{{Key: "createdAt", Value: dir}, {Key: "_id", Value: dir}}
}
