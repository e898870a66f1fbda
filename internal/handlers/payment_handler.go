package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentHandler handles boost-payment HTTP requests
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// GetPlans handles GET /plans
func (h *PaymentHandler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, h.paymentService.Plans())
}

// SubmitPayment handles POST /payments/boost
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var claim models.PaymentClaim
	if err := c.ShouldBindJSON(&claim); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	result, err := h.paymentService.SubmitBoostPayment(c, claim)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	// Pending and rejected are outcomes, not errors; 200 either way.
	c.JSON(http.StatusOK, result)
}

// GetPaymentByID handles GET /payments/:id
func (h *PaymentHandler) GetPaymentByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetPendingPayments handles GET /payments/pending, the manual review queue
func (h *PaymentHandler) GetPendingPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	payments, err := h.paymentService.GetPaymentsByStatus(c, models.PaymentPending, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payments: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// ReviewPayment handles POST /payments/:id/review
func (h *PaymentHandler) ReviewPayment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.ReviewPayment(c, id, *request.Approve)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// RetryActivation handles POST /payments/:id/activate, the repair path after
// an activation failure left a confirmed record without a featured ad
func (h *PaymentHandler) RetryActivation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.paymentService.RetryActivation(c, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Activation applied"})
}

// respondPaymentError maps the payment error taxonomy to HTTP responses. The
// codes let the client choose between "fix your input", "try again" and
// "contact support, your payment may have gone through".
func respondPaymentError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var transientErr *services.TransientStoreError
	var activationErr *services.ActivationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "code": "VALIDATION_ERROR"})
	case errors.As(err, &transientErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable, please retry", "code": "STORE_UNAVAILABLE", "retryable": true})
	case errors.As(err, &activationErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Payment recorded but activation failed, contact support",
			"code":      "ACTIVATION_FAILED",
			"paymentId": activationErr.PaymentID.Hex(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
