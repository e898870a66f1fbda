// Package risk scores boost payment claims. The mobile-money networks in
// scope offer no programmatic confirmation callback, so the only evidence for
// a payment is what the user types in: a phone number, a transaction
// reference, and a pasted SMS. Scoring is a heuristic over that evidence;
// higher means less trustworthy.
package risk

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Penalty weights. Additive, uncapped; the duplicate weight alone exceeds any
// approval threshold so a reused reference is an effective auto-reject.
const (
	PenaltyInvalidPhone = 40
	PenaltyShortMessage = 20
	PenaltyNoKeyword    = 10
	PenaltyBadRefLength = 30
	PenaltyDuplicateRef = 100
	minMessageLen       = 5
	minReferenceLen     = 5
	maxReferenceLen     = 25
	countryPrefix       = "258"
	subscriberDigits    = 7
)

// Reason strings surfaced to operators reviewing pending payments.
const (
	ReasonInvalidPhone = "invalid phone number format"
	ReasonShortMessage = "message too short"
	ReasonNoKeyword    = "message does not appear to contain a confirmation"
	ReasonBadRefLength = "reference code has invalid length"
	ReasonDuplicateRef = "this reference code has already been used"
)

// defaultMobilePrefixes are the Mozambican mobile network prefixes
// (Vodacom 84/85, Movitel 86/87, Tmcel 82/83).
var defaultMobilePrefixes = []string{"82", "83", "84", "85", "86", "87"}

// defaultKeywords are the confirmation keywords looked for in the pasted SMS,
// in Portuguese and English.
var defaultKeywords = []string{
	"transferiu", "transferido", "pago", "confirmado", "sucesso",
	"transaccao", "transacao", "referencia", "recebido", "enviado",
	"transfer", "paid", "confirm", "success", "transaction",
	"id", "reference", "sent", "received",
}

// Assessment is the outcome of evaluating a claim. Reasons preserve the order
// the checks were evaluated in.
type Assessment struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Evaluator scores claims against a configurable prefix allow-list and
// confirmation keyword list.
type Evaluator struct {
	prefixes []string
	keywords []string
}

// NewEvaluator builds an Evaluator. Empty slices select the built-in defaults.
func NewEvaluator(prefixes, keywords []string) *Evaluator {
	if len(prefixes) == 0 {
		prefixes = defaultMobilePrefixes
	}
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	return &Evaluator{prefixes: prefixes, keywords: keywords}
}

// Evaluate scores a claim. Inputs are expected to be normalized already
// (NormalizePhone / NormalizeReference); the duplicate lookup is a store
// round-trip performed by the caller and passed in as a boolean. The function
// is deterministic and side-effect free.
func (e *Evaluator) Evaluate(phone, reference, message string, referenceAlreadyUsed bool) Assessment {
	a := Assessment{Reasons: []string{}}

	if !e.ValidPhone(phone) {
		a.Score += PenaltyInvalidPhone
		a.Reasons = append(a.Reasons, ReasonInvalidPhone)
	}

	// Lengths are in runes; accented Portuguese text must not count double.
	if utf8.RuneCountInString(message) < minMessageLen {
		a.Score += PenaltyShortMessage
		a.Reasons = append(a.Reasons, ReasonShortMessage)
	} else if !e.containsKeyword(message) {
		a.Score += PenaltyNoKeyword
		a.Reasons = append(a.Reasons, ReasonNoKeyword)
	}

	refLen := utf8.RuneCountInString(reference)
	if refLen < minReferenceLen || refLen > maxReferenceLen {
		a.Score += PenaltyBadRefLength
		a.Reasons = append(a.Reasons, ReasonBadRefLength)
	}

	if referenceAlreadyUsed {
		a.Score += PenaltyDuplicateRef
		a.Reasons = append(a.Reasons, ReasonDuplicateRef)
	}

	return a
}

// ValidPhone reports whether a normalized number is a plausible Mozambican
// mobile number: an allow-listed two-digit prefix followed by exactly seven digits.
func (e *Evaluator) ValidPhone(phone string) bool {
	if len(phone) != 2+subscriberDigits {
		return false
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	for _, p := range e.prefixes {
		if strings.HasPrefix(phone, p) {
			return true
		}
	}
	return false
}

func (e *Evaluator) containsKeyword(message string) bool {
	m := strings.ToLower(message)
	for _, kw := range e.keywords {
		if strings.Contains(m, kw) {
			return true
		}
	}
	return false
}

// NormalizePhone strips every non-digit and a leading country prefix, so
// "+258 84 123 4567" and "841234567" compare equal.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 2+subscriberDigits && strings.HasPrefix(digits, countryPrefix) {
		digits = digits[len(countryPrefix):]
	}
	return digits
}

// NormalizeReference trims and upper-cases a reference code; reference codes
// are compared and de-duplicated in this form.
func NormalizeReference(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
