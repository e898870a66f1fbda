package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/risk"
	"github.com/anunciosmz/marketplace-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type stubPaymentService struct {
	result    *models.PaymentResult
	submitErr error
	payment   *models.Payment
	reviewErr error
}

func (s *stubPaymentService) SubmitBoostPayment(ctx context.Context, claim models.PaymentClaim) (*models.PaymentResult, error) {
	return s.result, s.submitErr
}

func (s *stubPaymentService) EvaluateRisk(claim models.PaymentClaim, referenceAlreadyUsed bool) risk.Assessment {
	return risk.Assessment{}
}

func (s *stubPaymentService) Plans() []models.PricingPlan {
	return services.DefaultPlans(false)
}

func (s *stubPaymentService) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	if s.payment == nil {
		return nil, mongo.ErrNoDocuments
	}
	return s.payment, nil
}

func (s *stubPaymentService) GetPaymentsByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Payment, error) {
	if s.payment == nil {
		return []*models.Payment{}, nil
	}
	return []*models.Payment{s.payment}, nil
}

func (s *stubPaymentService) ReviewPayment(ctx context.Context, id primitive.ObjectID, approve bool) (*models.Payment, error) {
	return s.payment, s.reviewErr
}

func (s *stubPaymentService) RetryActivation(ctx context.Context, paymentID primitive.ObjectID) error {
	return s.reviewErr
}

func setupPaymentRouter(svc services.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(svc)
	r := gin.New()
	r.GET("/plans", h.GetPlans)
	r.POST("/payments/boost", h.SubmitPayment)
	r.GET("/payments/pending", h.GetPendingPayments)
	r.GET("/payments/:id", h.GetPaymentByID)
	r.POST("/payments/:id/review", h.ReviewPayment)
	r.POST("/payments/:id/activate", h.RetryActivation)
	return r
}

func httpDo(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validClaim() models.PaymentClaim {
	return models.PaymentClaim{
		AdID:           primitive.NewObjectID().Hex(),
		PlanID:         "standard",
		Operator:       models.OperatorMpesa,
		PhoneNumber:    "841234567",
		ReferenceCode:  "PP2301XY",
		MessageContent: "Confirmado. Transferiu 100MT.",
	}
}

func TestGetPlans(t *testing.T) {
	r := setupPaymentRouter(&stubPaymentService{})

	w := httpDo(r, "GET", "/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var plans []models.PricingPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plans))
	require.Len(t, plans, 3)
	assert.Equal(t, "basic", plans[0].ID)
	assert.Equal(t, 100, plans[1].Price)
}

func TestSubmitPaymentOutcomes(t *testing.T) {
	// Pending and rejected are outcomes, not HTTP errors.
	for _, status := range []models.PaymentStatus{models.PaymentConfirmed, models.PaymentPending, models.PaymentRejected} {
		svc := &stubPaymentService{result: &models.PaymentResult{Status: status, Message: "m"}}
		r := setupPaymentRouter(svc)

		w := httpDo(r, "POST", "/payments/boost", validClaim())
		require.Equal(t, http.StatusOK, w.Code, "status %s", status)

		var result models.PaymentResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, status, result.Status)
	}
}

func TestSubmitPaymentMissingFields(t *testing.T) {
	r := setupPaymentRouter(&stubPaymentService{})

	w := httpDo(r, "POST", "/payments/boost", map[string]string{"planId": "standard"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitPaymentErrorTaxonomy(t *testing.T) {
	paymentID := primitive.NewObjectID()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", &services.ValidationError{Message: "ad not found"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"transient store", &services.TransientStoreError{Op: "insert", Err: errors.New("down")}, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"activation", &services.ActivationError{PaymentID: paymentID, Err: errors.New("down")}, http.StatusInternalServerError, "ACTIVATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupPaymentRouter(&stubPaymentService{submitErr: tt.err})

			w := httpDo(r, "POST", "/payments/boost", validClaim())
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)

			if tt.name == "activation" {
				// The client needs the record id to hand to support.
				assert.Contains(t, w.Body.String(), paymentID.Hex())
			}
		})
	}
}

func TestGetPaymentByID(t *testing.T) {
	payment := &models.Payment{ID: primitive.NewObjectID(), Status: models.PaymentPending}
	r := setupPaymentRouter(&stubPaymentService{payment: payment})

	w := httpDo(r, "GET", "/payments/"+payment.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = httpDo(r, "GET", "/payments/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewPayment(t *testing.T) {
	payment := &models.Payment{ID: primitive.NewObjectID(), Status: models.PaymentConfirmed}

	t.Run("approve", func(t *testing.T) {
		r := setupPaymentRouter(&stubPaymentService{payment: payment})
		w := httpDo(r, "POST", "/payments/"+payment.ID.Hex()+"/review", map[string]bool{"approve": true})
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing approve field", func(t *testing.T) {
		r := setupPaymentRouter(&stubPaymentService{payment: payment})
		w := httpDo(r, "POST", "/payments/"+payment.ID.Hex()+"/review", map[string]string{})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		r := setupPaymentRouter(&stubPaymentService{reviewErr: mongo.ErrNoDocuments})
		w := httpDo(r, "POST", "/payments/"+payment.ID.Hex()+"/review", map[string]bool{"approve": true})
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
