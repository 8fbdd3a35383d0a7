package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyPaymentSignature checks the signature Razorpay hands to the client
// after hosted checkout. The signed material is "<order_id>|<payment_id>"
// and the secret is the API key secret, never the webhook secret.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" {
		return false
	}
	return verifyHMAC([]byte(orderID+"|"+paymentID), signature, secret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw request body using the dedicated webhook secret.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	return verifyHMAC(payload, signature, secret)
}

func verifyHMAC(payload []byte, signatureHex, secret string) bool {
	sig := strings.TrimSpace(signatureHex)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
