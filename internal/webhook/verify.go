// Package webhook receives board change callbacks so card moves made by
// hand on the board still show up in the logs and metrics.
package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
)

// VerifySignature checks the X-Trello-Webhook header. The provider signs
// base64(HMAC-SHA1(body + callbackURL)) with the API secret.
func VerifySignature(secret string, body []byte, callbackURL, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	mac.Write([]byte(callbackURL))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
