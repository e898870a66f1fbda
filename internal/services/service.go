package services

import (
	"context"

	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/risk"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentService defines the interface for boost payment operations
type PaymentService interface {
	// SubmitBoostPayment runs the full decision pipeline for a claim:
	// validation, normalization, duplicate lookup, risk scoring, persistence
	// and, on approval, featuring the ad. Scoring outcomes (pending,
	// rejected) are results, not errors; errors are the taxonomy in errors.go.
	SubmitBoostPayment(ctx context.Context, claim models.PaymentClaim) (*models.PaymentResult, error)

	// EvaluateRisk scores a claim without touching the store. The duplicate
	// lookup result is supplied by the caller.
	EvaluateRisk(claim models.PaymentClaim, referenceAlreadyUsed bool) risk.Assessment

	// Plans returns the static boost plan catalog.
	Plans() []models.PricingPlan

	GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	GetPaymentsByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Payment, error)

	// ReviewPayment resolves a pending payment after manual follow-up.
	// Approving activates the ad off the existing record.
	ReviewPayment(ctx context.Context, id primitive.ObjectID, approve bool) (*models.Payment, error)

	// RetryActivation re-applies just the ad activation for an already
	// confirmed record, the repair path after an ActivationError.
	RetryActivation(ctx context.Context, paymentID primitive.ObjectID) error
}

// AdService defines the interface for ad listing operations
type AdService interface {
	CreateAd(ctx context.Context, ad *models.Ad) error
	GetAdByID(ctx context.Context, id primitive.ObjectID, countView bool) (*models.Ad, error)
	GetAds(ctx context.Context, category models.AdCategory, page, limit int) ([]*models.Ad, error)
	GetFeaturedAds(ctx context.Context, page, limit int) ([]*models.Ad, error)
	GetAdsByUser(ctx context.Context, userID string) ([]*models.Ad, error)

	// DeleteAd removes an ad together with its payment records.
	DeleteAd(ctx context.Context, id primitive.ObjectID) error

	// ExpireFeatured un-features every ad whose boost has lapsed and returns
	// how many were cleared. Run periodically by cmd/scripts/expire_featured.
	ExpireFeatured(ctx context.Context) (int64, error)

	GetAdCount(ctx context.Context) (int64, error)
}
