// Package boost drives the multi-step boost purchase flow. The session is a
// plain state machine: it sequences the steps and carries the claim being
// assembled, while every business decision stays in the payment service.
package boost

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/services"
	"github.com/anunciosmz/marketplace-backend/internal/utils"
	"github.com/google/uuid"
)

// State is one step of the boost flow.
type State string

const (
	StatePlanSelection       State = "PLAN_SELECTION"
	StatePaymentInstructions State = "PAYMENT_INSTRUCTIONS"
	StatePaymentForm         State = "PAYMENT_FORM"
	StateProcessing          State = "PROCESSING"
	StateResult              State = "RESULT"
)

// Action is the single follow-up offered on the result screen.
type Action string

const (
	ActionReturnToAd Action = "RETURN_TO_AD"
	ActionCloseRetry Action = "CLOSE_RETRY"
)

// ErrInvalidTransition is returned when a step is requested out of order.
type ErrInvalidTransition struct {
	From State
	Op   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s from state %s", e.Op, e.From)
}

// Instructions tell the user where to send the money before they fill the
// claim form.
type Instructions struct {
	Operator           models.Operator `json:"operator"`
	Destination        string          `json:"destination"`
	DestinationDisplay string          `json:"destinationDisplay"`
	Amount             int             `json:"amount"`
	AmountDisplay      string          `json:"amountDisplay"`
	Reference          string          `json:"reference"`
}

// Session is one user's walk through the boost flow for a single ad.
// Forward-only except that the instructions and form steps may go back one step.
type Session struct {
	ID string

	mu        sync.Mutex
	state     State
	adID      string
	planID    string
	operator  models.Operator
	reference string
	result    *models.PaymentResult
	failure   error

	payments     services.PaymentService
	destinations map[string]string
}

// NewSession starts a flow at plan selection.
func NewSession(adID string, payments services.PaymentService, destinations map[string]string) *Session {
	return &Session{
		ID:           uuid.NewString(),
		state:        StatePlanSelection,
		adID:         adID,
		payments:     payments,
		destinations: destinations,
	}
}

// State returns the current step.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectPlan records the chosen plan and advances to the payment
// instructions. Free plans short-circuit: the claim is auto-approved and the
// session lands directly on the result.
func (s *Session) SelectPlan(ctx context.Context, planID string, operator models.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlanSelection {
		return &ErrInvalidTransition{From: s.state, Op: "select plan"}
	}

	plan := services.FindPlan(s.payments.Plans(), planID)
	if plan == nil {
		return fmt.Errorf("unknown plan %q", planID)
	}

	s.planID = planID
	s.operator = operator

	if plan.IsFree() {
		result, err := s.payments.SubmitBoostPayment(ctx, models.PaymentClaim{
			AdID:     s.adID,
			PlanID:   planID,
			Operator: operator,
		})
		s.result = result
		s.failure = err
		s.state = StateResult
		return nil
	}

	// The display reference shown in the instructions; the user's own
	// transaction reference from the SMS supersedes it at claim time.
	s.reference = utils.GenerateReference("PP")
	s.state = StatePaymentInstructions
	return nil
}

// Instructions returns the payment instructions for the selected plan.
func (s *Session) Instructions() (*Instructions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaymentInstructions {
		return nil, &ErrInvalidTransition{From: s.state, Op: "show instructions"}
	}

	plan := services.FindPlan(s.payments.Plans(), s.planID)
	if plan == nil {
		return nil, fmt.Errorf("unknown plan %q", s.planID)
	}
	destination := s.destinations[string(s.operator)]
	return &Instructions{
		Operator:           s.operator,
		Destination:        destination,
		DestinationDisplay: utils.FormatPhoneDisplay(destination),
		Amount:             plan.Price,
		AmountDisplay:      utils.FormatAmount(plan.Price),
		Reference:          s.reference,
	}, nil
}

// Proceed advances from the instructions to the claim form.
func (s *Session) Proceed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaymentInstructions {
		return &ErrInvalidTransition{From: s.state, Op: "proceed"}
	}
	s.state = StatePaymentForm
	return nil
}

// Back steps back from the instructions or the claim form. Abandoning the
// form before submission creates no record at all.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StatePaymentInstructions:
		s.state = StatePlanSelection
	case StatePaymentForm:
		s.state = StatePaymentInstructions
	default:
		return &ErrInvalidTransition{From: s.state, Op: "go back"}
	}
	return nil
}

// Submit runs the claim through the decision engine. Only legal from the
// claim form; the session passes through PROCESSING and always ends on
// RESULT, whether the engine returned an outcome or an error.
func (s *Session) Submit(ctx context.Context, phoneNumber, referenceCode, messageContent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaymentForm {
		return &ErrInvalidTransition{From: s.state, Op: "submit"}
	}
	s.state = StateProcessing

	result, err := s.payments.SubmitBoostPayment(ctx, models.PaymentClaim{
		AdID:           s.adID,
		PlanID:         s.planID,
		Operator:       s.operator,
		PhoneNumber:    phoneNumber,
		ReferenceCode:  referenceCode,
		MessageContent: messageContent,
	})
	s.result = result
	s.failure = err
	s.state = StateResult
	return nil
}

// Result returns the terminal outcome and the single follow-up action the UI
// should offer. Only legal on RESULT.
func (s *Session) Result() (*models.PaymentResult, Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateResult {
		return nil, "", &ErrInvalidTransition{From: s.state, Op: "read result"}
	}
	if s.failure != nil {
		return nil, ActionCloseRetry, s.failure
	}
	if s.result.Status == models.PaymentConfirmed {
		return s.result, ActionReturnToAd, nil
	}
	return s.result, ActionCloseRetry, nil
}

const defaultSessionTTL = 30 * time.Minute

// Manager keeps live sessions for the HTTP layer. Clients that abandon the
// flow never call DELETE, so sessions idle past the TTL are evicted lazily on
// the next access instead of accumulating forever.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	lastSeen map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a Manager evicting sessions idle longer than ttl.
// A non-positive ttl selects the default of 30 minutes.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		lastSeen: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Start creates and registers a session.
func (m *Manager) Start(adID string, payments services.PaymentService, destinations map[string]string) *Session {
	s := NewSession(adID, payments, destinations)
	m.mu.Lock()
	m.evictIdle()
	m.sessions[s.ID] = s
	m.lastSeen[s.ID] = m.now()
	m.mu.Unlock()
	return s
}

// Get returns a session by id, or nil. Accessing a session keeps it alive.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIdle()
	s := m.sessions[id]
	if s != nil {
		m.lastSeen[id] = m.now()
	}
	return s
}

// Close forgets a session.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	delete(m.lastSeen, id)
	m.mu.Unlock()
}

// evictIdle drops sessions idle past the TTL. Callers hold the lock.
func (m *Manager) evictIdle() {
	cutoff := m.now().Add(-m.ttl)
	for id, seen := range m.lastSeen {
		if seen.Before(cutoff) {
			delete(m.sessions, id)
			delete(m.lastSeen, id)
		}
	}
}
