package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// HMACQueryParam carries the signature on webhook URLs.
const HMACQueryParam = "hmac"

// HMACSignatureService implements ports.SignatureService using HMAC-SHA256.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA256 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign computes HMAC-SHA256 of payload using secretKey.
// Returns lowercase hex-encoded signature.
func (s *HMACSignatureService) Sign(secretKey string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks if signature matches HMAC-SHA256(secretKey, payload).
// Uses constant-time comparison to prevent timing attacks.
func (s *HMACSignatureService) Verify(secretKey string, payload string, signature string) bool {
	expected := s.Sign(secretKey, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookBase joins the public origin and a request path into the string
// the webhook HMAC covers.
func WebhookBase(publicBaseURL, path string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// SignedURL returns rawURL without its query plus an hmac parameter over it,
// ready to register with the PSP.
func (s *HMACSignatureService) SignedURL(secretKey, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse webhook url: %w", err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", fmt.Errorf("webhook url must be an absolute https url, got %q", rawURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	base := u.String()

	q := url.Values{}
	q.Set(HMACQueryParam, s.Sign(secretKey, base))
	return base + "?" + q.Encode(), nil
}
