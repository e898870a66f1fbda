package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anunciosmz/marketplace-backend/internal/config"
	"github.com/anunciosmz/marketplace-backend/internal/events"
	"github.com/anunciosmz/marketplace-backend/internal/models"
	"github.com/anunciosmz/marketplace-backend/internal/repositories"
	"github.com/anunciosmz/marketplace-backend/internal/repositories/mongodb"
	"github.com/anunciosmz/marketplace-backend/internal/risk"
	"github.com/anunciosmz/marketplace-backend/internal/utils"
	"github.com/anunciosmz/marketplace-backend/pkg/smsgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Result messages shown to the user, matching the product's Portuguese copy.
const (
	msgConfirmed = "Pagamento confirmado! O seu anúncio está em destaque."
	msgPending   = "Pagamento em verificação. O destaque será activado após confirmação manual."
	msgRejected  = "Pagamento rejeitado: esta referência já foi utilizada."
)

// WalletClient initiates a push debit on the payer's mobile wallet. Only the
// trust-on-submit variant calls it.
type WalletClient interface {
	RequestDebit(ctx context.Context, number string, amount int, provider string) error
}

// Compile-time check to ensure PaymentServiceImpl implements PaymentService
var _ PaymentService = (*PaymentServiceImpl)(nil)

type PaymentServiceImpl struct {
	paymentRepo repositories.PaymentRepository
	adRepo      repositories.AdRepository
	evaluator   *risk.Evaluator
	plans       []models.PricingPlan
	policy      config.PaymentConfig
	notifier    smsgateway.Gateway // nil disables outcome SMS
	wallet      WalletClient       // nil disables push debits
	publisher   events.Publisher
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, adRepo repositories.AdRepository, policy config.PaymentConfig, notifier smsgateway.Gateway, wallet WalletClient, publisher events.Publisher) *PaymentServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PaymentServiceImpl{
		paymentRepo: paymentRepo,
		adRepo:      adRepo,
		evaluator:   risk.NewEvaluator(policy.MobilePrefixes, policy.ConfirmationKeywords),
		plans:       DefaultPlans(policy.FreePlan),
		policy:      policy,
		notifier:    notifier,
		wallet:      wallet,
		publisher:   publisher,
	}
}

// Plans returns the static boost plan catalog.
func (s *PaymentServiceImpl) Plans() []models.PricingPlan {
	return s.plans
}

// EvaluateRisk normalizes the claim fields and scores them. It never touches
// the store; the duplicate lookup result is supplied by the caller.
func (s *PaymentServiceImpl) EvaluateRisk(claim models.PaymentClaim, referenceAlreadyUsed bool) risk.Assessment {
	phone := risk.NormalizePhone(claim.PhoneNumber)
	reference := risk.NormalizeReference(claim.ReferenceCode)
	return s.evaluator.Evaluate(phone, reference, claim.MessageContent, referenceAlreadyUsed)
}

// SubmitBoostPayment runs the decision pipeline for a claim.
func (s *PaymentServiceImpl) SubmitBoostPayment(ctx context.Context, claim models.PaymentClaim) (*models.PaymentResult, error) {
	// 1. Structural validation. Nothing is persisted past this point until
	// the record insert, so these are the only inputs the user must fix.
	plan := FindPlan(s.plans, claim.PlanID)
	if plan == nil {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown plan %q", claim.PlanID)}
	}

	adID, err := primitive.ObjectIDFromHex(claim.AdID)
	if err != nil {
		return nil, &ValidationError{Message: "invalid ad id"}
	}
	if _, err := s.adRepo.FindByID(ctx, adID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ValidationError{Message: "ad not found"}
		}
		return nil, &TransientStoreError{Op: "ad lookup", Err: err}
	}

	// Promotional plans have no payment step at all.
	if plan.IsFree() {
		return s.activateFreePlan(ctx, adID, plan, claim)
	}

	// 2. Normalization. Reference codes are compared upper-cased and
	// trimmed; phone numbers with digits only and no country prefix.
	phone := risk.NormalizePhone(claim.PhoneNumber)
	reference := risk.NormalizeReference(claim.ReferenceCode)

	// 3. Duplicate pre-check. Advisory only: the unique index on insert is
	// what closes the race between concurrent claims.
	existing, err := s.paymentRepo.FindActiveByReference(ctx, reference)
	if err != nil {
		return nil, &TransientStoreError{Op: "duplicate check", Err: err}
	}
	referenceAlreadyUsed := existing != nil

	// 4-5. Score and decide.
	assessment := s.evaluator.Evaluate(phone, reference, claim.MessageContent, referenceAlreadyUsed)
	status := s.decide(assessment)

	if s.policy.TrustOnSubmit && !referenceAlreadyUsed {
		// Experiment variant: any non-duplicate submission is taken at face
		// value, optionally triggering a wallet push debit.
		status = models.PaymentConfirmed
		if s.wallet != nil {
			if err := s.wallet.RequestDebit(ctx, phone, plan.Price, string(claim.Operator)); err != nil {
				slog.Warn("wallet debit request failed", "error", err, "phone", phone)
			}
		}
	}

	payment := &models.Payment{
		AdID:           adID,
		Amount:         plan.Price,
		PlanID:         plan.ID,
		ClientNumber:   phone,
		Operator:       claim.Operator,
		ReferenceCode:  reference,
		MessageContent: claim.MessageContent,
		Status:         status,
		RiskScore:      assessment.Score,
		RiskReasons:    assessment.Reasons,
	}

	// 6. Persist. A duplicate-key rejection means another claim won the race
	// after our pre-check; re-score with the duplicate flag and record the
	// loss as a rejected payment, which the unique index permits.
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, mongodb.ErrDuplicateReference) {
			assessment = s.evaluator.Evaluate(phone, reference, claim.MessageContent, true)
			payment.Status = models.PaymentRejected
			payment.RiskScore = assessment.Score
			payment.RiskReasons = assessment.Reasons
			if err := s.paymentRepo.Create(ctx, payment); err != nil {
				return nil, &TransientStoreError{Op: "payment insert", Err: err}
			}
			slog.Info("boost payment rejected on duplicate reference", "adId", claim.AdID, "reference", reference)
			s.notify(phone, msgRejected)
			return &models.PaymentResult{Status: models.PaymentRejected, Message: msgRejected}, nil
		}
		return nil, &TransientStoreError{Op: "payment insert", Err: err}
	}

	slog.Info("boost payment recorded",
		"paymentId", payment.ID.Hex(), "adId", claim.AdID, "plan", plan.ID,
		"status", status, "riskScore", assessment.Score)

	// 7. Side effect: feature the ad. Failing here must not roll back the
	// record that already exists; the caller gets an ActivationError carrying
	// the payment id so just this step can be re-applied.
	if status == models.PaymentConfirmed {
		expiresAt := time.Now().AddDate(0, 0, plan.DurationDays)
		if err := s.adRepo.SetFeatured(ctx, adID, true, &expiresAt); err != nil {
			slog.Error("ad activation failed after payment insert", "error", err, "paymentId", payment.ID.Hex())
			return nil, &ActivationError{PaymentID: payment.ID, Err: err}
		}
		s.publisher.AdChanged(ctx, events.AdFeatured, claim.AdID)
	}

	// 8. Report the outcome.
	switch status {
	case models.PaymentConfirmed:
		s.notify(phone, msgConfirmed)
		return &models.PaymentResult{Status: models.PaymentConfirmed, Message: msgConfirmed}, nil
	case models.PaymentRejected:
		s.notify(phone, msgRejected)
		return &models.PaymentResult{Status: models.PaymentRejected, Message: msgRejected}, nil
	default:
		s.notify(phone, msgPending)
		return &models.PaymentResult{Status: models.PaymentPending, Message: msgPending}, nil
	}
}

// decide maps an assessment to a status. The threshold is policy, not scoring:
// it lives in config so product can tune it without touching the evaluator.
func (s *PaymentServiceImpl) decide(a risk.Assessment) models.PaymentStatus {
	threshold := s.policy.PendingThreshold
	if threshold <= 0 {
		threshold = 50
	}
	if a.Score < threshold {
		return models.PaymentConfirmed
	}
	for _, reason := range a.Reasons {
		if reason == risk.ReasonDuplicateRef {
			return models.PaymentRejected
		}
	}
	return models.PaymentPending
}

// activateFreePlan records a zero-amount payment and features the ad without
// any scoring. The reference is generated so the uniqueness index stays clean.
func (s *PaymentServiceImpl) activateFreePlan(ctx context.Context, adID primitive.ObjectID, plan *models.PricingPlan, claim models.PaymentClaim) (*models.PaymentResult, error) {
	payment := &models.Payment{
		AdID:          adID,
		Amount:        0,
		PlanID:        plan.ID,
		ClientNumber:  risk.NormalizePhone(claim.PhoneNumber),
		Operator:      claim.Operator,
		ReferenceCode: utils.GenerateReference("FREE"),
		Status:        models.PaymentConfirmed,
		RiskScore:     0,
		RiskReasons:   []string{},
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, &TransientStoreError{Op: "payment insert", Err: err}
	}

	expiresAt := time.Now().AddDate(0, 0, plan.DurationDays)
	if err := s.adRepo.SetFeatured(ctx, adID, true, &expiresAt); err != nil {
		return nil, &ActivationError{PaymentID: payment.ID, Err: err}
	}
	s.publisher.AdChanged(ctx, events.AdFeatured, adID.Hex())

	slog.Info("free plan activated", "paymentId", payment.ID.Hex(), "adId", adID.Hex())
	return &models.PaymentResult{Status: models.PaymentConfirmed, Message: msgConfirmed}, nil
}

// GetPaymentByID retrieves a payment record by ID
func (s *PaymentServiceImpl) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return s.paymentRepo.FindByID(ctx, id)
}

// GetPaymentsByStatus retrieves payments by status with pagination
func (s *PaymentServiceImpl) GetPaymentsByStatus(ctx context.Context, status models.PaymentStatus, page, limit int) ([]*models.Payment, error) {
	return s.paymentRepo.FindByStatus(ctx, status, page, limit)
}

// ReviewPayment resolves a pending payment after manual follow-up.
func (s *PaymentServiceImpl) ReviewPayment(ctx context.Context, id primitive.ObjectID, approve bool) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return nil, &ValidationError{Message: fmt.Sprintf("payment is %s, only pending payments can be reviewed", payment.Status)}
	}

	status := models.PaymentRejected
	if approve {
		status = models.PaymentConfirmed
	}
	if err := s.paymentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, &TransientStoreError{Op: "payment status update", Err: err}
	}
	payment.Status = status

	if approve {
		plan := FindPlan(s.plans, payment.PlanID)
		if plan == nil {
			return nil, &ValidationError{Message: fmt.Sprintf("payment references unknown plan %q", payment.PlanID)}
		}
		expiresAt := time.Now().AddDate(0, 0, plan.DurationDays)
		if err := s.adRepo.SetFeatured(ctx, payment.AdID, true, &expiresAt); err != nil {
			return nil, &ActivationError{PaymentID: payment.ID, Err: err}
		}
		s.publisher.AdChanged(ctx, events.AdFeatured, payment.AdID.Hex())
		s.notify(payment.ClientNumber, msgConfirmed)
	}

	slog.Info("payment reviewed", "paymentId", id.Hex(), "approved", approve)
	return payment, nil
}

// RetryActivation re-applies the ad activation for an existing confirmed
// record. Expiry is anchored to the record's creation time so a late repair
// does not extend the boost.
func (s *PaymentServiceImpl) RetryActivation(ctx context.Context, paymentID primitive.ObjectID) error {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status != models.PaymentConfirmed {
		return &ValidationError{Message: fmt.Sprintf("payment is %s, only confirmed payments can be activated", payment.Status)}
	}

	plan := FindPlan(s.plans, payment.PlanID)
	if plan == nil {
		return &ValidationError{Message: fmt.Sprintf("payment references unknown plan %q", payment.PlanID)}
	}

	expiresAt := payment.CreatedAt.AddDate(0, 0, plan.DurationDays)
	if err := s.adRepo.SetFeatured(ctx, payment.AdID, true, &expiresAt); err != nil {
		return &ActivationError{PaymentID: payment.ID, Err: err}
	}
	s.publisher.AdChanged(ctx, events.AdFeatured, payment.AdID.Hex())
	return nil
}

// notify sends an outcome SMS on a best-effort basis.
func (s *PaymentServiceImpl) notify(phone, message string) {
	if s.notifier == nil || phone == "" {
		return
	}
	if _, err := s.notifier.SendSMS(phone, message); err != nil {
		slog.Warn("outcome SMS failed", "error", err, "phone", phone)
	}
}
