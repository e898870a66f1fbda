package repositories

import (
	"context"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentRepository defines the interface for payment record operations
type PaymentRepository interface {
	// Create inserts a payment record. For non-rejected records a unique
	// index on referenceCode applies; a reused reference surfaces as
	// ErrDuplicateReference from the mongodb implementation.
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	// FindActiveByReference looks up a non-rejected payment with the given
	// normalized reference code. Returns nil, nil when none exists.
	FindActiveByReference(ctx context.Context, referenceCode string) (*models.Payment, error)
	FindByAdID(ctx context.Context, adID primitive.ObjectID) ([]*models.Payment, error)
	FindByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Payment, error)
	// UpdateStatus is the manual-review transition out of pending.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error
	DeleteByAdID(ctx context.Context, adID primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// AdRepository defines the interface for ad operations. Only the featured
// flag and expiry are owned by the payment flow; the rest serves the listing API.
type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Ad, error)
	FindAll(ctx context.Context, category models.AdCategory, page, limit int) ([]*models.Ad, error)
	FindFeatured(ctx context.Context, page, limit int) ([]*models.Ad, error)
	FindByUserID(ctx context.Context, userID string) ([]*models.Ad, error)
	SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool, expiresAt *time.Time) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ExpireFeatured clears the featured flag on every ad whose expiry has
	// passed and returns how many were cleared.
	ExpireFeatured(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}
