package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/events"
	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// recordingAdRepo tracks calls so the delete ordering and the expire sweep
// can be asserted.
type recordingAdRepo struct {
	mockAdRepo
	created      *models.Ad
	calls        []string
	deleteErr    error
	incrementErr error
	expired      int64
	expireErr    error
	expireNow    time.Time
}

func (m *recordingAdRepo) Create(ctx context.Context, ad *models.Ad) error {
	m.calls = append(m.calls, "ad.create")
	ad.ID = primitive.NewObjectID()
	m.created = ad
	return nil
}

func (m *recordingAdRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	m.calls = append(m.calls, "ad.incrementViews")
	return m.incrementErr
}

func (m *recordingAdRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.calls = append(m.calls, "ad.delete")
	return m.deleteErr
}

func (m *recordingAdRepo) ExpireFeatured(ctx context.Context, now time.Time) (int64, error) {
	m.calls = append(m.calls, "ad.expireFeatured")
	m.expireNow = now
	return m.expired, m.expireErr
}

// recordingPaymentRepo wraps mockPaymentRepo to observe DeleteByAdID ordering
// through the shared call log.
type recordingPaymentRepo struct {
	mockPaymentRepo
	calls     *[]string
	deleteErr error
}

func (m *recordingPaymentRepo) DeleteByAdID(ctx context.Context, adID primitive.ObjectID) error {
	*m.calls = append(*m.calls, "payment.deleteByAdID")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	return m.mockPaymentRepo.DeleteByAdID(ctx, adID)
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) AdChanged(ctx context.Context, event events.AdEvent, adID string) {
	p.events = append(p.events, string(event))
}

func TestCreateAdResetsBoostState(t *testing.T) {
	adRepo := &recordingAdRepo{}
	publisher := &recordingPublisher{}
	svc := NewAdService(adRepo, &mockPaymentRepo{}, publisher)

	expires := time.Now().Add(time.Hour)
	ad := &models.Ad{
		Title:             "Toyota Hilux 2018",
		Price:             1500000,
		Category:          models.CategoryVehicle,
		IsFeatured:        true, // must not survive creation
		FeaturedExpiresAt: &expires,
		Views:             42,
	}
	require.NoError(t, svc.CreateAd(context.Background(), ad))

	assert.False(t, adRepo.created.IsFeatured)
	assert.Nil(t, adRepo.created.FeaturedExpiresAt)
	assert.Equal(t, 0, adRepo.created.Views)
	assert.Equal(t, "MT", adRepo.created.Currency)
	assert.Equal(t, []string{string(events.AdCreated)}, publisher.events)
}

func TestCreateAdKeepsExplicitCurrency(t *testing.T) {
	adRepo := &recordingAdRepo{}
	svc := NewAdService(adRepo, &mockPaymentRepo{}, nil)

	ad := &models.Ad{Title: "iPhone 13", Currency: "USD"}
	require.NoError(t, svc.CreateAd(context.Background(), ad))
	assert.Equal(t, "USD", adRepo.created.Currency)
}

func TestGetAdByIDViewCounting(t *testing.T) {
	adID := primitive.NewObjectID()

	t.Run("counts the view", func(t *testing.T) {
		adRepo := &recordingAdRepo{mockAdRepo: mockAdRepo{ad: &models.Ad{ID: adID, Views: 3}}}
		svc := NewAdService(adRepo, &mockPaymentRepo{}, nil)

		ad, err := svc.GetAdByID(context.Background(), adID, true)
		require.NoError(t, err)
		assert.Equal(t, 4, ad.Views)
	})

	t.Run("read without view", func(t *testing.T) {
		adRepo := &recordingAdRepo{mockAdRepo: mockAdRepo{ad: &models.Ad{ID: adID, Views: 3}}}
		svc := NewAdService(adRepo, &mockPaymentRepo{}, nil)

		ad, err := svc.GetAdByID(context.Background(), adID, false)
		require.NoError(t, err)
		assert.Equal(t, 3, ad.Views)
		assert.NotContains(t, adRepo.calls, "ad.incrementViews")
	})

	t.Run("failed increment never fails the read", func(t *testing.T) {
		adRepo := &recordingAdRepo{
			mockAdRepo:   mockAdRepo{ad: &models.Ad{ID: adID, Views: 3}},
			incrementErr: errors.New("mongo down"),
		}
		svc := NewAdService(adRepo, &mockPaymentRepo{}, nil)

		ad, err := svc.GetAdByID(context.Background(), adID, true)
		require.NoError(t, err)
		assert.Equal(t, 3, ad.Views)
	})

	t.Run("unknown ad", func(t *testing.T) {
		adRepo := &recordingAdRepo{}
		svc := NewAdService(adRepo, &mockPaymentRepo{}, nil)

		_, err := svc.GetAdByID(context.Background(), primitive.NewObjectID(), true)
		require.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}

func TestDeleteAdRemovesPaymentsFirst(t *testing.T) {
	adID := primitive.NewObjectID()
	adRepo := &recordingAdRepo{mockAdRepo: mockAdRepo{ad: &models.Ad{ID: adID}}}
	paymentRepo := &recordingPaymentRepo{calls: &adRepo.calls}
	paymentRepo.payments = []*models.Payment{
		{ID: primitive.NewObjectID(), AdID: adID, Status: models.PaymentConfirmed},
	}
	publisher := &recordingPublisher{}
	svc := NewAdService(adRepo, paymentRepo, publisher)

	require.NoError(t, svc.DeleteAd(context.Background(), adID))

	assert.Equal(t, []string{"payment.deleteByAdID", "ad.delete"}, adRepo.calls)
	assert.Empty(t, paymentRepo.payments)
	assert.Equal(t, []string{string(events.AdDeleted)}, publisher.events)
}

func TestDeleteAdStopsWhenPaymentDeleteFails(t *testing.T) {
	adID := primitive.NewObjectID()
	adRepo := &recordingAdRepo{mockAdRepo: mockAdRepo{ad: &models.Ad{ID: adID}}}
	paymentRepo := &recordingPaymentRepo{calls: &adRepo.calls, deleteErr: errors.New("mongo down")}
	publisher := &recordingPublisher{}
	svc := NewAdService(adRepo, paymentRepo, publisher)

	err := svc.DeleteAd(context.Background(), adID)
	require.Error(t, err)

	// The ad survives so its payment history stays queryable.
	assert.NotContains(t, adRepo.calls, "ad.delete")
	assert.Empty(t, publisher.events)
}

func TestExpireFeaturedSweep(t *testing.T) {
	adRepo := &recordingAdRepo{expired: 2}
	svc := NewAdService(adRepo, &mockPaymentRepo{}, nil)

	before := time.Now()
	cleared, err := svc.ExpireFeatured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
	assert.False(t, adRepo.expireNow.Before(before))
}

func TestExpireFeaturedPropagatesError(t *testing.T) {
	adRepo := &recordingAdRepo{expireErr: errors.New("mongo down")}
	svc := NewAdService(adRepo, &mockPaymentRepo{}, nil)

	_, err := svc.ExpireFeatured(context.Background())
	require.Error(t, err)
}
