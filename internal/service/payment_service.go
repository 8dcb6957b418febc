package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"opd-booking/config"
)

// PaymentVerifier checks payment confirmations against the provider secret.
// The provider signs HMAC-SHA256 over "<orderID>|<paymentID>" and hands the
// hex digest to the client as the signature.
type PaymentVerifier struct {
	secret string
}

func NewPaymentVerifier(cfg config.PaymentConfig) *PaymentVerifier {
	return &PaymentVerifier{secret: cfg.KeySecret}
}

// Enabled reports whether a provider secret is configured. Without one,
// bookings fall back to pay-at-clinic and signatures are not checked.
func (v *PaymentVerifier) Enabled() bool {
	return v.secret != ""
}

// Verify reports whether signature matches the expected digest for the given
// order and payment ids. Comparison is constant time.
func (v *PaymentVerifier) Verify(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
