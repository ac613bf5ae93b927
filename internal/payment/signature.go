package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

// ErrGatewayNotConfigured is returned when no signing secret is available.
// Verification fails closed in that case.
var ErrGatewayNotConfigured = fmt.Errorf("%w: payment gateway secret not configured", domain.ErrPaymentVerification)

// ErrSignatureMismatch is returned when the claimed signature does not match.
var ErrSignatureMismatch = fmt.Errorf("%w: invalid payment signature", domain.ErrPaymentVerification)

// Sign returns the lowercase hex HMAC-SHA256 of "orderID|paymentID".
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a gateway-asserted signature for the given order and payment.
// The comparison is exact: no trimming and no case folding.
func Verify(orderID, paymentID, signature, secret string) error {
	if secret == "" {
		return ErrGatewayNotConfigured
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return fmt.Errorf("%w: order id, payment id and signature are required", domain.ErrPaymentVerification)
	}
	expected := Sign(orderID, paymentID, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// IsNotConfigured reports whether err stems from a missing gateway secret.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrGatewayNotConfigured)
}
