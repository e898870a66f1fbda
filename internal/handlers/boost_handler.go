package handlers

import (
	"errors"
	"net/http"

	"github.com/anunciosmz/marketplace-backend/internal/boost"
	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// BoostHandler exposes the boost session flow over HTTP. Each session walks
// one ad through plan selection, instructions, the claim form and the result.
type BoostHandler struct {
	sessions       *boost.Manager
	paymentService services.PaymentService
	destinations   map[string]string
}

// NewBoostHandler creates a new BoostHandler
func NewBoostHandler(sessions *boost.Manager, paymentService services.PaymentService, destinations map[string]string) *BoostHandler {
	return &BoostHandler{
		sessions:       sessions,
		paymentService: paymentService,
		destinations:   destinations,
	}
}

// StartSession handles POST /boost/sessions
func (h *BoostHandler) StartSession(c *gin.Context) {
	var request struct {
		AdID string `json:"adId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := h.sessions.Start(request.AdID, h.paymentService, h.destinations)
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": session.ID,
		"state":     session.State(),
		"plans":     h.paymentService.Plans(),
	})
}

// SelectPlan handles POST /boost/sessions/:id/plan
func (h *BoostHandler) SelectPlan(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var request struct {
		PlanID   string          `json:"planId" binding:"required"`
		Operator models.Operator `json:"operator"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.SelectPlan(c, request.PlanID, request.Operator); err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": session.State()})
}

// GetInstructions handles GET /boost/sessions/:id/instructions
func (h *BoostHandler) GetInstructions(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	instructions, err := session.Instructions()
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, instructions)
}

// Proceed handles POST /boost/sessions/:id/proceed
func (h *BoostHandler) Proceed(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	if err := session.Proceed(); err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": session.State()})
}

// Back handles POST /boost/sessions/:id/back
func (h *BoostHandler) Back(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	if err := session.Back(); err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": session.State()})
}

// Submit handles POST /boost/sessions/:id/submit
func (h *BoostHandler) Submit(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	var request struct {
		PhoneNumber    string `json:"phoneNumber"`
		ReferenceCode  string `json:"referenceCode"`
		MessageContent string `json:"messageContent"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.Submit(c, request.PhoneNumber, request.ReferenceCode, request.MessageContent); err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": session.State()})
}

// GetResult handles GET /boost/sessions/:id/result
func (h *BoostHandler) GetResult(c *gin.Context) {
	session := h.session(c)
	if session == nil {
		return
	}

	result, action, err := session.Result()
	if err != nil {
		var transition *boost.ErrInvalidTransition
		if errors.As(err, &transition) {
			respondSessionError(c, err)
			return
		}
		// The submission itself failed. The session still terminated on
		// RESULT; surface the engine's error taxonomy.
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  result.Status,
		"message": result.Message,
		"action":  action,
	})
}

// CloseSession handles DELETE /boost/sessions/:id
func (h *BoostHandler) CloseSession(c *gin.Context) {
	h.sessions.Close(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

func (h *BoostHandler) session(c *gin.Context) *boost.Session {
	session := h.sessions.Get(c.Param("id"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil
	}
	return session
}

func respondSessionError(c *gin.Context, err error) {
	var transition *boost.ErrInvalidTransition
	if errors.As(err, &transition) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
