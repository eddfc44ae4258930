package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// SignatureHeader is the HTTP header Memberful uses to deliver the payload
// signature.
const SignatureHeader = "X-Memberful-Webhook-Signature"

// Verify reports whether signature is a valid HMAC-SHA256 of body keyed by
// secret. The signature may carry a "sha256=" algorithm tag and the digest may
// be hex or base64 encoded; both historical formats are accepted.
//
// Verification must run against the raw request bytes: any re-serialization of
// the payload changes the byte sequence and invalidates the signature.
//
// A missing, empty, or malformed signature yields false, never an error. The
// only error condition is an empty secret, which is a configuration fault.
func Verify(body []byte, signature, secret string) (bool, error) {
	if strings.TrimSpace(secret) == "" {
		return false, ErrMissingSecret
	}

	sig := strings.TrimSpace(signature)
	sig = strings.TrimPrefix(sig, "sha256=")
	if sig == "" {
		return false, nil
	}

	digest, ok := decodeDigest(sig)
	if !ok {
		return false, nil
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	// hmac.Equal is constant time.
	return hmac.Equal(digest, mac.Sum(nil)), nil
}

// decodeDigest decodes a signature digest, trying hex first (what Memberful
// sends today) and falling back to base64 variants.
func decodeDigest(s string) ([]byte, bool) {
	if b, err := hex.DecodeString(s); err == nil {
		return b, true
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, true
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, true
	}
	return nil, false
}
