package mongodb

import (
	"context"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdRepository implements the repositories.AdRepository interface
type AdRepository struct {
	collection *mongo.Collection
}

// NewAdRepository creates a new AdRepository
func NewAdRepository(db *mongo.Database) repositories.AdRepository {
	return &AdRepository{
		collection: db.Collection("ads"),
	}
}

// Create creates a new ad
func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	ad.CreatedAt = time.Now()
	ad.UpdatedAt = ad.CreatedAt
	res, err := r.collection.InsertOne(ctx, ad)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		ad.ID = id
	}
	return nil
}

// FindByID finds an ad by ID
func (r *AdRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ad, error) {
	var ad models.Ad
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ad)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// FindAll finds ads with optional category filter and pagination, featured
// ads first, then newest first
func (r *AdRepository) FindAll(ctx context.Context, category models.AdCategory, page, limit int) ([]*models.Ad, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "isFeatured", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ads []*models.Ad
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// FindFeatured finds currently featured ads with pagination
func (r *AdRepository) FindFeatured(ctx context.Context, page, limit int) ([]*models.Ad, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"featuredExpiresAt": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"isFeatured": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ads []*models.Ad
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// FindByUserID finds all ads owned by a user
func (r *AdRepository) FindByUserID(ctx context.Context, userID string) ([]*models.Ad, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ads []*models.Ad
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// SetFeatured sets or clears the featured flag and expiry on an ad
func (r *AdRepository) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool, expiresAt *time.Time) error {
	set := bson.M{
		"isFeatured": featured,
		"updatedAt":  time.Now(),
	}
	update := bson.M{"$set": set}
	if expiresAt != nil {
		set["featuredExpiresAt"] = *expiresAt
	} else {
		update["$unset"] = bson.M{"featuredExpiresAt": ""}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// IncrementViews increments the view counter of an ad
func (r *AdRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// Delete deletes an ad
func (r *AdRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ExpireFeatured clears the featured flag on ads whose expiry has passed
func (r *AdRepository) ExpireFeatured(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"isFeatured":        true,
		"featuredExpiresAt": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set":   bson.M{"isFeatured": false, "updatedAt": now},
		"$unset": bson.M{"featuredExpiresAt": ""},
	}

	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Count counts all ads
func (r *AdRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
