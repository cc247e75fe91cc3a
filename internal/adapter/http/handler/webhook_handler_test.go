package handler

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pix-gateway/internal/adapter/http/middleware"
	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports/mocks"
	"pix-gateway/internal/service"
	"pix-gateway/internal/testutil/tlstest"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	publicURL  = "https://gw.example.com"
	hmacSecret = "s3cret"
	pspAddr    = "34.193.116.226"
)

func newWebhookRouter(t *testing.T, publisher *mocks.MockReconciliationPublisher, logBuf *bytes.Buffer) (*gin.Engine, *WebhookHandler) {
	t.Helper()
	log := zerolog.Nop()
	if logBuf != nil {
		log = zerolog.New(logBuf)
	}
	h := NewWebhookHandler(publisher, log)
	h.now = func() time.Time { return time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC) }
	r := SetupWebhookRouter(WebhookRouterDeps{
		Handler: h,
		Auth:    middleware.WebhookAuthConfig{PublicBaseURL: publicURL, HMACSecret: hmacSecret, TrustedIP: pspAddr},
		Signer:  service.NewHMACSignatureService(),
		Logger:  log,
	})
	return r, h
}

// signedRequest builds a request admitted by the signed URL mode.
func signedRequest(path, body string) *http.Request {
	sig := service.NewHMACSignatureService().Sign(hmacSecret, service.WebhookBase(publicURL, path))
	req := httptest.NewRequest(http.MethodPost, path+"?hmac="+sig, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderSkipMTLS, "true")
	req.RemoteAddr = pspAddr + ":50000"
	return req
}

func ackCount(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var ack map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	return ack["received"]
}

func TestWebhookPix_EnqueuesEachEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockReconciliationPublisher(ctrl)
	r, h := newWebhookRouter(t, publisher, nil)

	received := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	publisher.EXPECT().PublishPix(gomock.Any(), domain.PixEvent{
		EndToEndID: "E18236120202603011459s0000000001",
		TxID:       "tx-1",
		PixKey:     "5f84a4c5-c5cb-4599-9f13-7eb4d419dacc",
		Amount:     1050,
		PayerInfo:  "pedido 42",
		PaidAt:     time.Date(2026, 3, 1, 14, 59, 0, 0, time.UTC),
		ReceivedAt: received,
	}).Return(nil)
	publisher.EXPECT().PublishPix(gomock.Any(), domain.PixEvent{
		EndToEndID: "E09089356202603011459API00000002",
		SendID:     "0d9c8b7a6f5e4d3c8b2a190817263544",
		Amount:     25000,
		PaidAt:     time.Date(2026, 3, 1, 14, 59, 30, 0, time.UTC),
		ReceivedAt: received,
	}).Return(nil)

	body := `{"pix":[
		{"endToEndId":"E18236120202603011459s0000000001","txid":"tx-1","valor":"10.50",
		 "chave":"5f84a4c5-c5cb-4599-9f13-7eb4d419dacc","horario":"2026-03-01T11:59:00-03:00","infoPagador":"pedido 42"},
		{"endToEndId":"E09089356202603011459API00000002","valor":"250.00","horario":"2026-03-01T14:59:30Z",
		 "gnExtras":{"idEnvio":"0d9c8b7a6f5e4d3c8b2a190817263544"}}
	]}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("/webhook/pix", body))
	h.Wait()

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, ackCount(t, w))
}

func TestWebhookPix_BareArrayAndEmptyEnvelope(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockReconciliationPublisher(ctrl)
	r, h := newWebhookRouter(t, publisher, nil)

	publisher.EXPECT().PublishPix(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("/webhook/pix", `[{"endToEndId":"E1","valor":"1.00"}]`))
	h.Wait()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ackCount(t, w))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("/webhook/pix", `{"evento":"teste_webhook"}`))
	h.Wait()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, ackCount(t, w))
}

func TestWebhookPix_MalformedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockReconciliationPublisher(ctrl)
	r, h := newWebhookRouter(t, publisher, nil)

	for _, body := range []string{
		`{"pix":`,
		`{"pix":{"endToEndId":"E1"}}`,
		`{"pix":[{"valor":"1.00"}]}`,
		`{"pix":[{"endToEndId":"E1","valor":"abc"}]}`,
		`{"pix":[{"endToEndId":"E1","valor":"1.001"}]}`,
		`{"pix":[{"endToEndId":"E1","valor":"1.00","horario":"yesterday"}]}`,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedRequest("/webhook/pix", body))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	h.Wait()
}

func TestWebhookPix_PublishFailureStillAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockReconciliationPublisher(ctrl)
	var logs bytes.Buffer
	r, h := newWebhookRouter(t, publisher, &logs)

	publisher.EXPECT().PublishPix(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.PixEvent) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return errors.New("redis: connection refused")
		})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("/webhook/pix", `{"pix":[{"endToEndId":"E1","valor":"5.00"}]}`))
	h.Wait()

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "failed to enqueue pix event")
}

func TestWebhookRecurrence(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockReconciliationPublisher(ctrl)
	r, h := newWebhookRouter(t, publisher, nil)

	publisher.EXPECT().PublishRecurrence(gomock.Any(), domain.RecurrenceEvent{
		RecurrenceID: "RR1234567820260301abcdefghijk",
		Status:       "APROVADA",
		OccurredAt:   time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
		ReceivedAt:   time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
	}).Return(nil)
	publisher.EXPECT().PublishRecurrence(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt domain.RecurrenceEvent) error {
			assert.Equal(t, int64(1999), evt.Amount)
			assert.Equal(t, "E1", evt.EndToEndID)
			return nil
		})

	body := `{"recs":[
		{"idRec":"RR1234567820260301abcdefghijk","status":"APROVADA"},
		{"idRec":"RR2","status":"PAGA","txid":"tx-9","endToEndId":"E1","valor":"19.99","horario":"2026-03-01T14:00:00Z"}
	]}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("/webhook/recurrence", body))
	h.Wait()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, ackCount(t, w))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("/webhook/recurrence", `[{"idRec":"RR3"}]`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_UnauthenticatedNeverPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockReconciliationPublisher(ctrl)
	r, h := newWebhookRouter(t, publisher, nil)

	req := signedRequest("/webhook/pix", `{"pix":[{"endToEndId":"E1","valor":"5.00"}]}`)
	req.RemoteAddr = "198.51.100.20:40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	h.Wait()

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "untrusted")
}

func TestWebhookConfigCheck_RequiresMutualTLS(t *testing.T) {
	ctrl := gomock.NewController(t)
	r, _ := newWebhookRouter(t, mocks.NewMockReconciliationPublisher(ctrl), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest("/webhook", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "signed url mode is not enough for the config check")
}

func TestWebhookHealth_NoAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	r, _ := newWebhookRouter(t, mocks.NewMockReconciliationPublisher(ctrl), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookGateway_MutualTLS(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockReconciliationPublisher(ctrl)
	r, h := newWebhookRouter(t, publisher, nil)

	pspCA := tlstest.NewCA(t, "psp-ca")
	serverCA := tlstest.NewCA(t, "gateway-ca")
	serverLeaf := serverCA.Server(t)

	cfg, err := ServerTLSConfig(
		tlstest.WriteFile(t, "server.crt", serverLeaf.CertPEM),
		tlstest.WriteFile(t, "server.key", serverLeaf.KeyPEM),
		tlstest.WriteFile(t, "psp-ca.pem", pspCA.PEM),
	)
	require.NoError(t, err)
	assert.Equal(t, tls.VerifyClientCertIfGiven, cfg.ClientAuth)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)

	srv := httptest.NewUnstartedServer(r)
	srv.TLS = cfg
	srv.StartTLS()
	defer srv.Close()

	clientFor := func(certs ...tls.Certificate) *http.Client {
		return &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{TLSClientConfig: &tls.Config{
				RootCAs:      serverCA.Pool(),
				Certificates: certs,
			}},
		}
	}

	// Verified PSP certificate: config check and events pass.
	psp := clientFor(pspCA.Client(t, "psp").TLS)
	resp, err := psp.Post(srv.URL+"/webhook", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	publisher.EXPECT().PublishPix(gomock.Any(), gomock.Any()).Return(nil)
	resp, err = psp.Post(srv.URL+"/webhook/pix", "application/json", strings.NewReader(`[{"endToEndId":"E1","valor":"1.00"}]`))
	require.NoError(t, err)
	resp.Body.Close()
	h.Wait()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// No client certificate: the handshake succeeds but the request is refused.
	resp, err = clientFor().Post(srv.URL+"/webhook", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Certificate from another CA fails the handshake.
	stranger := tlstest.NewCA(t, "stranger")
	_, err = clientFor(stranger.Client(t, "mallory").TLS).Post(srv.URL+"/webhook", "application/json", nil)
	assert.Error(t, err)
}

func TestServerTLSConfig_Errors(t *testing.T) {
	ca := tlstest.NewCA(t, "ca")
	leaf := ca.Server(t)
	certFile := tlstest.WriteFile(t, "server.crt", leaf.CertPEM)
	keyFile := tlstest.WriteFile(t, "server.key", leaf.KeyPEM)

	_, err := ServerTLSConfig(certFile, keyFile, "/nonexistent/ca.pem")
	assert.Error(t, err)

	_, err = ServerTLSConfig(certFile, keyFile, tlstest.WriteFile(t, "empty.pem", []byte("nothing here")))
	assert.ErrorContains(t, err, "no certificates")

	_, err = ServerTLSConfig(keyFile, certFile, tlstest.WriteFile(t, "ca.pem", ca.PEM))
	assert.Error(t, err)
}
