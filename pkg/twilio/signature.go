package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"sort"
)

// SignatureHeader is the header Twilio signs inbound webhooks with.
const SignatureHeader = "X-Twilio-Signature"

// ComputeSignature builds the expected signature for a webhook call:
// HMAC-SHA1 over the exact callback URL followed by every form parameter
// concatenated as key+value in sorted key order, base64 encoded.
func ComputeSignature(authToken, url string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := url
	for _, k := range keys {
		data += k + params[k]
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(data))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateSignature checks a webhook signature in constant time. An empty
// auth token never validates.
func ValidateSignature(authToken, url string, params map[string]string, signature string) bool {
	if authToken == "" || signature == "" {
		return false
	}

	expected := ComputeSignature(authToken, url, params)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
