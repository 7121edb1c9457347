package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/statusquo/feed-service/internal/core/domain"
)

const postsCollection = "posts"

// PostRepository implements ports.PostRepository using MongoDB.
type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID  string             `bson:"author_id"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	LikeCount int                `bson:"like_count"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (mp *mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:        mp.ID.Hex(),
		AuthorID:  mp.AuthorID,
		Title:     mp.Title,
		Content:   mp.Content,
		LikeCount: mp.LikeCount,
		CreatedAt: mp.CreatedAt.UTC(),
	}
}

func (r *PostRepository) Insert(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	doc := mongoPost{
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var mp mongoPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

// ListAll returns a fresh snapshot of all posts, most recent first.
func (r *PostRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]*domain.Post, 0)
	for cur.Next(ctx) {
		var mp mongoPost
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// IncLikeCount bumps the counter by one and returns the new value.
func (r *PostRepository) IncLikeCount(ctx context.Context, id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrPostNotFound
	}

	var mp mongoPost
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"like_count": 1}}, opts).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrPostNotFound
		}
		return 0, fmt.Errorf("increment like count: %w", err)
	}
	return mp.LikeCount, nil
}

// DecLikeCount decrements the counter, floored at zero. The floor is part of
// the query filter, so a counter already at zero is never pushed negative by
// a racing or replayed decrement.
func (r *PostRepository) DecLikeCount(ctx context.Context, id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrPostNotFound
	}

	var mp mongoPost
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": oid, "like_count": bson.M{"$gt": 0}}
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"like_count": -1}}, opts).Decode(&mp)
	if err == nil {
		return mp.LikeCount, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("decrement like count: %w", err)
	}

	// No match: the post is gone, or the counter was already at zero.
	post, ferr := r.FindByID(ctx, id)
	if ferr != nil {
		return 0, ferr
	}
	return post.LikeCount, nil
}

// EnsureIndexes creates the indexes backing the feed listing and the
// per-author profile view.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
