package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	goodPhone   = "841234567"
	goodRef     = "PP2301XY"
	goodMessage = "Confirmado. Transferiu 100MT."
)

func TestEvaluateCleanClaim(t *testing.T) {
	e := NewEvaluator(nil, nil)

	a := e.Evaluate(goodPhone, goodRef, goodMessage, false)

	assert.Equal(t, 0, a.Score)
	assert.Empty(t, a.Reasons)
}

func TestEvaluatePhoneCheck(t *testing.T) {
	e := NewEvaluator(nil, nil)

	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"vodacom 84", "841234567", true},
		{"vodacom 85", "851234567", true},
		{"movitel 86", "861234567", true},
		{"movitel 87", "871234567", true},
		{"tmcel 82", "821234567", true},
		{"tmcel 83", "831234567", true},
		{"unknown prefix", "701234567", false},
		{"too short", "8412345", false},
		{"too long", "8412345678", false},
		{"letters", "84abc4567", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := e.Evaluate(tt.phone, goodRef, goodMessage, false)
			if tt.valid {
				assert.Equal(t, 0, a.Score)
			} else {
				assert.Equal(t, PenaltyInvalidPhone, a.Score)
				assert.Equal(t, []string{ReasonInvalidPhone}, a.Reasons)
			}
		})
	}
}

func TestEvaluateMessageChecks(t *testing.T) {
	e := NewEvaluator(nil, nil)

	t.Run("empty message scores as too short", func(t *testing.T) {
		a := e.Evaluate(goodPhone, goodRef, "", false)
		assert.Equal(t, PenaltyShortMessage, a.Score)
		assert.Equal(t, []string{ReasonShortMessage}, a.Reasons)
	})

	t.Run("short message", func(t *testing.T) {
		a := e.Evaluate(goodPhone, goodRef, "ok", false)
		assert.Equal(t, PenaltyShortMessage, a.Score)
	})

	t.Run("long message without keyword", func(t *testing.T) {
		a := e.Evaluate(goodPhone, goodRef, "ola bom dia tudo bem", false)
		assert.Equal(t, PenaltyNoKeyword, a.Score)
		assert.Equal(t, []string{ReasonNoKeyword}, a.Reasons)
	})

	t.Run("keyword match is case-insensitive", func(t *testing.T) {
		a := e.Evaluate(goodPhone, goodRef, "TRANSFERIU 100MT para 841234567", false)
		assert.Equal(t, 0, a.Score)
	})

	t.Run("english keywords accepted", func(t *testing.T) {
		a := e.Evaluate(goodPhone, goodRef, "you have received 100MT", false)
		assert.Equal(t, 0, a.Score)
	})

	t.Run("short and no keyword do not stack", func(t *testing.T) {
		a := e.Evaluate(goodPhone, goodRef, "ola", false)
		assert.Equal(t, PenaltyShortMessage, a.Score)
	})

	t.Run("length is counted in runes, not bytes", func(t *testing.T) {
		// "Olá!" is 4 runes but 5 bytes; it must still score as too short.
		a := e.Evaluate(goodPhone, goodRef, "Olá!", false)
		assert.Equal(t, PenaltyShortMessage, a.Score)
		assert.Equal(t, []string{ReasonShortMessage}, a.Reasons)
	})
}

func TestEvaluateReferenceLength(t *testing.T) {
	e := NewEvaluator(nil, nil)

	t.Run("too short", func(t *testing.T) {
		a := e.Evaluate(goodPhone, "AB12", goodMessage, false)
		assert.Equal(t, PenaltyBadRefLength, a.Score)
		assert.Equal(t, []string{ReasonBadRefLength}, a.Reasons)
	})

	t.Run("minimum length accepted", func(t *testing.T) {
		a := e.Evaluate(goodPhone, "AB123", goodMessage, false)
		assert.Equal(t, 0, a.Score)
	})

	t.Run("maximum length accepted", func(t *testing.T) {
		ref := "A234567890123456789012345" // 25 chars
		require.Len(t, ref, 25)
		a := e.Evaluate(goodPhone, ref, goodMessage, false)
		assert.Equal(t, 0, a.Score)
	})

	t.Run("too long", func(t *testing.T) {
		ref := "A2345678901234567890123456" // 26 chars
		a := e.Evaluate(goodPhone, ref, goodMessage, false)
		assert.Equal(t, PenaltyBadRefLength, a.Score)
	})

	t.Run("length is counted in runes, not bytes", func(t *testing.T) {
		ref := "ÁÉÍÓÚ" // 5 runes, 10 bytes
		require.Equal(t, 10, len(ref))
		a := e.Evaluate(goodPhone, ref, goodMessage, false)
		assert.Equal(t, 0, a.Score)
	})
}

func TestEvaluateDuplicateReference(t *testing.T) {
	e := NewEvaluator(nil, nil)

	t.Run("duplicate alone exceeds any threshold", func(t *testing.T) {
		a := e.Evaluate(goodPhone, goodRef, goodMessage, true)
		assert.Equal(t, PenaltyDuplicateRef, a.Score)
		assert.Equal(t, []string{ReasonDuplicateRef}, a.Reasons)
	})

	t.Run("duplicate stacks with other defects, reasons keep order", func(t *testing.T) {
		a := e.Evaluate("123", "AB", "", true)
		assert.Equal(t, PenaltyInvalidPhone+PenaltyShortMessage+PenaltyBadRefLength+PenaltyDuplicateRef, a.Score)
		assert.Equal(t, []string{
			ReasonInvalidPhone,
			ReasonShortMessage,
			ReasonBadRefLength,
			ReasonDuplicateRef,
		}, a.Reasons)
	})
}

// Adding any single defect to a clean claim never decreases the score.
func TestEvaluateMonotonicity(t *testing.T) {
	e := NewEvaluator(nil, nil)
	base := e.Evaluate(goodPhone, goodRef, goodMessage, false)

	defects := []struct {
		name                 string
		phone, ref, message  string
		referenceAlreadyUsed bool
	}{
		{"bad phone", "123", goodRef, goodMessage, false},
		{"short message", goodPhone, goodRef, "ok", false},
		{"no keyword", goodPhone, goodRef, "mensagem qualquer", false},
		{"bad reference", goodPhone, "AB", goodMessage, false},
		{"duplicate", goodPhone, goodRef, goodMessage, true},
	}

	for _, d := range defects {
		t.Run(d.name, func(t *testing.T) {
			a := e.Evaluate(d.phone, d.ref, d.message, d.referenceAlreadyUsed)
			assert.GreaterOrEqual(t, a.Score, base.Score)
		})
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	e := NewEvaluator(nil, nil)

	first := e.Evaluate("123", "AB", "", true)
	second := e.Evaluate("123", "AB", "", true)

	assert.Equal(t, first, second)
}

func TestEvaluatorCustomLists(t *testing.T) {
	e := NewEvaluator([]string{"99"}, []string{"lekker"})

	assert.True(t, e.ValidPhone("991234567"))
	assert.False(t, e.ValidPhone(goodPhone))

	a := e.Evaluate("991234567", goodRef, "payment was lekker", false)
	assert.Equal(t, 0, a.Score)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"841234567", "841234567"},
		{"+258 84 123 4567", "841234567"},
		{"258841234567", "841234567"},
		{"84 123 4567", "841234567"},
		{"(84) 123-4567", "841234567"},
		{"123", "123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.out, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeReference(t *testing.T) {
	assert.Equal(t, "PP2301XY", NormalizeReference("  pp2301xy "))
	assert.Equal(t, "ABC", NormalizeReference("abc"))
}
