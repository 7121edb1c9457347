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

const usersCollection = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ExternalID string             `bson:"external_id"`
	Username   string             `bson:"username"`
	Avatar     string             `bson:"avatar,omitempty"`
	Bio        string             `bson:"bio,omitempty"`
	LikedPosts []string           `bson:"liked_posts"`
	CreatedAt  int64              `bson:"created_at"`
	UpdatedAt  int64              `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	liked := mu.LikedPosts
	if liked == nil {
		liked = []string{}
	}
	return &domain.User{
		ID:         mu.ID.Hex(),
		ExternalID: mu.ExternalID,
		Username:   mu.Username,
		Avatar:     mu.Avatar,
		Bio:        mu.Bio,
		LikedPosts: liked,
		CreatedAt:  unixToTime(mu.CreatedAt),
		UpdatedAt:  unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by external id: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// FindByIDs resolves a batch of user ids in one $in query. Unresolvable ids
// are left out of the result map.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	users := make(map[string]*domain.User, len(oids))
	if len(oids) == 0 {
		return users, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users[mu.ID.Hex()] = mu.toDomain()
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

// UpsertOnLogin creates or refreshes the account for an external identity in
// a single atomic write. The unique index on external_id makes look-free
// upserts safe; if two logins for a brand-new identity race, the loser gets
// a duplicate-key error and retries, landing on the winner's document.
func (r *UserRepository) UpsertOnLogin(ctx context.Context, externalID, username, avatar string) (*domain.User, error) {
	now := time.Now().UTC().Unix()
	filter := bson.M{"external_id": externalID}
	update := bson.M{
		"$set": bson.M{
			"username":   username,
			"avatar":     avatar,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"external_id": externalID,
			"liked_posts": []string{},
			"created_at":  now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var mu mongoUser
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu)
	if mongo.IsDuplicateKeyError(err) {
		err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert user on login: %w", err)
	}
	return mu.toDomain(), nil
}

// AddLikedPost adds postID to the user's liked set via $addToSet. The set
// semantics live in the store: the modified count reports whether the post
// was newly added.
func (r *UserRepository) AddLikedPost(ctx context.Context, userID, postID string) (bool, error) {
	return r.updateLikedSet(ctx, userID, bson.M{"$addToSet": bson.M{"liked_posts": postID}})
}

// RemoveLikedPost removes postID from the user's liked set via $pull.
func (r *UserRepository) RemoveLikedPost(ctx context.Context, userID, postID string) (bool, error) {
	return r.updateLikedSet(ctx, userID, bson.M{"$pull": bson.M{"liked_posts": postID}})
}

func (r *UserRepository) updateLikedSet(ctx context.Context, userID string, update bson.M) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return false, fmt.Errorf("update liked set: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, domain.ErrUserNotFound
	}
	return res.ModifiedCount > 0, nil
}

// EnsureIndexes creates the unique index backing upsert-on-login.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "external_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
