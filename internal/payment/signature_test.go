package payment

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	tests := []struct {
		orderID   string
		paymentID string
		secret    string
	}{
		{orderID: "order_1", paymentID: "pay_1", secret: "s3cret"},
		{orderID: "order_mock_000001", paymentID: "pay_mock_000001", secret: MockSecret},
		{orderID: "order|with|pipes", paymentID: "pay 2", secret: "another secret"},
	}
	for _, tc := range tests {
		sig := Sign(tc.orderID, tc.paymentID, tc.secret)
		if err := Verify(tc.orderID, tc.paymentID, sig, tc.secret); err != nil {
			t.Fatalf("Verify(%q, %q) returned error: %v", tc.orderID, tc.paymentID, err)
		}
	}
}

func TestSignKnownVector(t *testing.T) {
	const want = "ed6761c4e67c0a991bfaeb92862a829394ce920063c33d6b88795c8f79bbee35"
	if got := Sign("order", "pay", "key"); got != want {
		t.Fatalf("Sign() = %q, want %q", got, want)
	}
}

func TestVerifyRejectsEverySingleBitMutation(t *testing.T) {
	const secret = "bit-flip-secret"
	sig := Sign("order_42", "pay_42", secret)
	raw := []byte(sig)
	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			mutated := append([]byte(nil), raw...)
			mutated[i] ^= 1 << bit
			err := Verify("order_42", "pay_42", string(mutated), secret)
			if err == nil {
				t.Fatalf("mutation at byte %d bit %d was accepted", i, bit)
			}
			if !errors.Is(err, domain.ErrPaymentVerification) {
				t.Fatalf("mutation error = %v, want ErrPaymentVerification", err)
			}
		}
	}

	// Flipping bits of the decoded digest must be rejected as well.
	digest, err := hex.DecodeString(sig)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	for i := range digest {
		mutated := append([]byte(nil), digest...)
		mutated[i] ^= 0x01
		if Verify("order_42", "pay_42", hex.EncodeToString(mutated), secret) == nil {
			t.Fatalf("digest mutation at byte %d was accepted", i)
		}
	}
}

func TestVerifyExactMatch(t *testing.T) {
	const secret = "case-secret"
	sig := Sign("order_9", "pay_9", secret)
	tests := []struct {
		name string
		sig  string
	}{
		{name: "upper case", sig: strings.ToUpper(sig)},
		{name: "leading space", sig: " " + sig},
		{name: "trailing newline", sig: sig + "\n"},
		{name: "truncated", sig: sig[:len(sig)-1]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := Verify("order_9", "pay_9", tc.sig, secret); !errors.Is(err, ErrSignatureMismatch) {
				t.Fatalf("Verify() error = %v, want ErrSignatureMismatch", err)
			}
		})
	}
}

func TestVerifyRejectsEmptyInputs(t *testing.T) {
	sig := Sign("o", "p", "secret")
	tests := []struct {
		name                      string
		orderID, paymentID, claim string
	}{
		{name: "empty order", paymentID: "p", claim: sig},
		{name: "empty payment", orderID: "o", claim: sig},
		{name: "empty signature", orderID: "o", paymentID: "p"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Verify(tc.orderID, tc.paymentID, tc.claim, "secret")
			if !errors.Is(err, domain.ErrPaymentVerification) {
				t.Fatalf("Verify() error = %v, want ErrPaymentVerification", err)
			}
		})
	}
}

func TestVerifyFailsClosedWithoutSecret(t *testing.T) {
	sig := Sign("o", "p", "")
	err := Verify("o", "p", sig, "")
	if !IsNotConfigured(err) {
		t.Fatalf("Verify() error = %v, want ErrGatewayNotConfigured", err)
	}
	if !errors.Is(err, domain.ErrPaymentVerification) {
		t.Fatalf("not-configured error must wrap ErrPaymentVerification")
	}
}
