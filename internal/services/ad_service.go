package services

import (
	"context"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/events"
	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AdServiceImpl implements AdService
var _ AdService = (*AdServiceImpl)(nil)

type AdServiceImpl struct {
	adRepo      repositories.AdRepository
	paymentRepo repositories.PaymentRepository
	publisher   events.Publisher
}

func NewAdService(adRepo repositories.AdRepository, paymentRepo repositories.PaymentRepository, publisher events.Publisher) *AdServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AdServiceImpl{
		adRepo:      adRepo,
		paymentRepo: paymentRepo,
		publisher:   publisher,
	}
}

// CreateAd creates a new, unfeatured ad
func (s *AdServiceImpl) CreateAd(ctx context.Context, ad *models.Ad) error {
	ad.IsFeatured = false
	ad.FeaturedExpiresAt = nil
	ad.Views = 0
	if ad.Currency == "" {
		ad.Currency = "MT"
	}
	if err := s.adRepo.Create(ctx, ad); err != nil {
		return err
	}
	s.publisher.AdChanged(ctx, events.AdCreated, ad.ID.Hex())
	return nil
}

// GetAdByID retrieves an ad, optionally counting the read as a view
func (s *AdServiceImpl) GetAdByID(ctx context.Context, id primitive.ObjectID, countView bool) (*models.Ad, error) {
	ad, err := s.adRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if countView {
		if err := s.adRepo.IncrementViews(ctx, id); err != nil {
			// View counts are cosmetic; a failed increment never fails the read.
			slog.Warn("view increment failed", "error", err, "adId", id.Hex())
		} else {
			ad.Views++
		}
	}
	return ad, nil
}

// GetAds retrieves ads with optional category filter and pagination
func (s *AdServiceImpl) GetAds(ctx context.Context, category models.AdCategory, page, limit int) ([]*models.Ad, error) {
	return s.adRepo.FindAll(ctx, category, page, limit)
}

// GetFeaturedAds retrieves currently featured ads
func (s *AdServiceImpl) GetFeaturedAds(ctx context.Context, page, limit int) ([]*models.Ad, error) {
	return s.adRepo.FindFeatured(ctx, page, limit)
}

// GetAdsByUser retrieves the ads owned by a user
func (s *AdServiceImpl) GetAdsByUser(ctx context.Context, userID string) ([]*models.Ad, error) {
	return s.adRepo.FindByUserID(ctx, userID)
}

// DeleteAd removes an ad together with its payment records, in that order so
// a failed ad delete leaves the payments queryable.
func (s *AdServiceImpl) DeleteAd(ctx context.Context, id primitive.ObjectID) error {
	if err := s.paymentRepo.DeleteByAdID(ctx, id); err != nil {
		return err
	}
	if err := s.adRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.AdChanged(ctx, events.AdDeleted, id.Hex())
	return nil
}

// ExpireFeatured un-features every ad whose boost window has lapsed
func (s *AdServiceImpl) ExpireFeatured(ctx context.Context) (int64, error) {
	cleared, err := s.adRepo.ExpireFeatured(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if cleared > 0 {
		slog.Info("expired featured ads", "count", cleared)
	}
	return cleared, nil
}

// GetAdCount counts all ads
func (s *AdServiceImpl) GetAdCount(ctx context.Context) (int64, error) {
	return s.adRepo.Count(ctx)
}
