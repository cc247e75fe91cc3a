package middleware

import (
	"net"
	"net/http"
	"strings"

	"pix-gateway/internal/core/ports"
	"pix-gateway/internal/service"
	"pix-gateway/pkg/apperror"
	"pix-gateway/pkg/response"
	"pix-gateway/pkg/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderSkipMTLS asks the gateway to authenticate by signed URL instead of
// a client certificate.
const HeaderSkipMTLS = "x-skip-mtls-checking"

// CtxWebhookAuth holds the AuthKind that admitted a webhook request.
const CtxWebhookAuth = "webhook_auth"

// AuthKind tags an AuthMode.
type AuthKind string

const (
	AuthMutualTLS AuthKind = "mtls"
	AuthSignedURL AuthKind = "signed_url"
)

// AuthMode is how one webhook request must prove it came from the PSP.
// Secret and TrustedIP are set only for AuthSignedURL.
type AuthMode struct {
	Kind      AuthKind
	Secret    string
	TrustedIP string
}

// WebhookAuthConfig configures WebhookAuth.
type WebhookAuthConfig struct {
	PublicBaseURL string
	HMACSecret    string
	TrustedIP     string
}

// SelectAuthMode picks the mode from the explicit skip header.
func SelectAuthMode(r *http.Request, cfg WebhookAuthConfig) AuthMode {
	if strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderSkipMTLS)), "true") {
		return AuthMode{Kind: AuthSignedURL, Secret: cfg.HMACSecret, TrustedIP: cfg.TrustedIP}
	}
	return AuthMode{Kind: AuthMutualTLS}
}

// WebhookAuth admits PSP callbacks that present a verified client
// certificate, or that come from the PSP's address with a valid URL HMAC.
// Failures get a bare 401.
func WebhookAuth(cfg WebhookAuthConfig, signer ports.SignatureService, counters *telemetry.Counters, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := SelectAuthMode(c.Request, cfg)

		var reason string
		switch mode.Kind {
		case AuthMutualTLS:
			if !HasVerifiedClientCert(c.Request) {
				reason = "no verified client certificate"
			}
		case AuthSignedURL:
			reason = checkSignedURL(c.Request, mode, cfg.PublicBaseURL, signer)
		}

		if reason != "" {
			telemetry.Inc(c.Request.Context(), counters.WebhookAuthFailures, "mode", string(mode.Kind))
			log.Warn().
				Str("mode", string(mode.Kind)).
				Str("source_ip", SourceIP(c.Request)).
				Str("path", c.Request.URL.Path).
				Str("reason", reason).
				Msg("webhook authentication failed")
			response.Abort(c, apperror.ErrUnauthorized())
			return
		}

		c.Set(CtxWebhookAuth, mode.Kind)
		c.Next()
	}
}

func checkSignedURL(r *http.Request, mode AuthMode, publicBaseURL string, signer ports.SignatureService) string {
	if mode.Secret == "" || mode.TrustedIP == "" {
		return "signed url mode not configured"
	}
	if SourceIP(r) != mode.TrustedIP {
		return "untrusted source address"
	}
	given := r.URL.Query().Get(service.HMACQueryParam)
	if given == "" {
		return "missing hmac"
	}
	if !signer.Verify(mode.Secret, service.WebhookBase(publicBaseURL, r.URL.Path), given) {
		return "hmac mismatch"
	}
	return ""
}

// HasVerifiedClientCert reports whether the TLS handshake verified a client
// certificate against the configured CA pool.
func HasVerifiedClientCert(r *http.Request) bool {
	return r.TLS != nil && len(r.TLS.VerifiedChains) > 0
}

// SourceIP is the socket peer address with any IPv4-mapped prefix removed.
// Forwarding headers are ignored.
func SourceIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return strings.TrimPrefix(host, "::ffff:")
}

// WebhookAuthKind returns how the request was admitted.
func WebhookAuthKind(c *gin.Context) AuthKind {
	v, _ := c.Get(CtxWebhookAuth)
	kind, _ := v.(AuthKind)
	return kind
}
