package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns the X-Viber-Content-Signature value for body.
func Sign(authToken string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(authToken))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a hex HMAC-SHA256 of body keyed with the bot token.
func VerifySignature(authToken string, body []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" || authToken == "" {
		return false
	}
	got, err := hex.DecodeString(strings.ToLower(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(authToken))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
