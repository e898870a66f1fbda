package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateReference is returned by Create when the unique reference index
// rejects the insert. Pre-insert lookups narrow the window but two concurrent
// claims can both pass them; the index is what actually closes the race.
var ErrDuplicateReference = errors.New("reference code already used by a non-rejected payment")

// PaymentRepository implements the repositories.PaymentRepository interface
type PaymentRepository struct {
	collection *mongo.Collection
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *mongo.Database) repositories.PaymentRepository {
	return &PaymentRepository{
		collection: db.Collection("payments"),
	}
}

// EnsurePaymentIndexes creates the partial unique index on referenceCode.
// Rejected records are excluded so a failed claim does not burn the reference.
func EnsurePaymentIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("payments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "referenceCode", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": []models.PaymentStatus{models.PaymentConfirmed, models.PaymentPending}},
			}),
	})
	return err
}

// Create creates a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	res, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReference
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = id
	}
	return nil
}

// FindByID finds a payment by ID
func (r *PaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindActiveByReference finds a confirmed or pending payment by its normalized
// reference code. Returns nil, nil when the reference is unused.
func (r *PaymentRepository) FindActiveByReference(ctx context.Context, referenceCode string) (*models.Payment, error) {
	filter := bson.M{
		"referenceCode": referenceCode,
		"status":        bson.M{"$ne": models.PaymentRejected},
	}

	var payment models.Payment
	err := r.collection.FindOne(ctx, filter).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// FindByAdID finds all payments for an ad
func (r *PaymentRepository) FindByAdID(ctx context.Context, adID primitive.ObjectID) ([]*models.Payment, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"adId": adID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByStatus finds payments by status with pagination, oldest first so the
// review queue is worked in submission order
func (r *PaymentRepository) FindByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Payment, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// UpdateStatus updates the status of a payment record
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByAdID deletes all payments for an ad
func (r *PaymentRepository) DeleteByAdID(ctx context.Context, adID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"adId": adID})
	return err
}

// Count counts all payments
func (r *PaymentRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
