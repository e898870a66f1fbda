package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReference generates a display reference code like "PP7G2K4Q" for
// flows that need one before any payment exists (payment instructions, free
// plans). The alphabet drops easily confused characters (0/O, 1/I).
func GenerateReference(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, c := range b {
		sb.WriteByte(referenceAlphabet[int(c)%len(referenceAlphabet)])
	}
	return sb.String()
}

// FormatPhoneDisplay renders a normalized national number the way the UI
// shows it: "84 123 4567".
func FormatPhoneDisplay(phone string) string {
	if len(phone) != 9 {
		return phone
	}
	return fmt.Sprintf("%s %s %s", phone[:2], phone[2:5], phone[5:])
}

// FormatAmount renders a metical amount as the product prints it, e.g. "100 MT".
func FormatAmount(amount int) string {
	return fmt.Sprintf("%d MT", amount)
}
