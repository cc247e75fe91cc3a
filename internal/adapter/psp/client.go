// Package psp is the outbound PIX client: OAuth2 client credentials over
// mutual TLS, idempotent sends keyed by idEnvio.
package psp

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pix-gateway/internal/core/ports"
	"pix-gateway/pkg/money"
	"pix-gateway/pkg/pixkey"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenPath    = "/oauth/token"
	sendPath     = "/v3/gn/pix/"
	sentByIDPath = "/v2/gn/pix/enviados/id-envio/"

	maxErrorBody = 4 << 10
)

// Config configures the PSP client.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	Certificate  tls.Certificate
	// RootCAs verifies the PSP server; nil uses the system pool.
	RootCAs *x509.CertPool
}

// Client implements ports.DisbursementClient.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds the mTLS transport and the token source. cache may be nil.
func NewClient(cfg Config, cache ports.TokenCache, log zerolog.Logger) *Client {
	tlsCfg := &tls.Config{
		RootCAs:    cfg.RootCAs,
		MinVersion: tls.VersionTLS12,
	}
	if len(cfg.Certificate.Certificate) > 0 {
		tlsCfg.Certificates = []tls.Certificate{cfg.Certificate}
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsCfg,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	})
	source := oauth2.ReuseTokenSource(nil, &cachedTokenSource{
		base:  cc.TokenSource(tokenCtx),
		cache: cache,
		key:   "psp:token:" + cfg.ClientID,
		log:   log,
		now:   time.Now,
	})

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &oauth2.Transport{Source: source, Base: transport},
			Timeout:   cfg.Timeout,
		},
		log: log,
	}
}

type pixSendBody struct {
	Valor   string `json:"valor"`
	Pagador struct {
		Chave       string `json:"chave"`
		InfoPagador string `json:"infoPagador,omitempty"`
	} `json:"pagador"`
	Favorecido struct {
		Chave string `json:"chave"`
	} `json:"favorecido"`
}

type pixHorario struct {
	Solicitacao time.Time  `json:"solicitacao"`
	Liquidacao  *time.Time `json:"liquidacao,omitempty"`
}

type pixSendResponse struct {
	IDEnvio string     `json:"idEnvio"`
	E2EID   string     `json:"e2eId"`
	Valor   string     `json:"valor"`
	Horario pixHorario `json:"horario"`
	Status  string     `json:"status"`
}

type sentPixResponse struct {
	EndToEndID string     `json:"endToEndId"`
	IDEnvio    string     `json:"idEnvio"`
	Valor      string     `json:"valor"`
	Horario    pixHorario `json:"horario"`
	Status     string     `json:"status"`
}

type pspErrorBody struct {
	Nome     string `json:"nome"`
	Mensagem string `json:"mensagem"`
}

// SendPix issues PUT /v3/gn/pix/:idEnvio. The PSP treats a repeated idEnvio
// as the same transfer.
func (c *Client) SendPix(ctx context.Context, req ports.PixSendRequest) (*ports.PixSendResult, error) {
	var body pixSendBody
	body.Valor = money.ToValor(req.Amount)
	body.Pagador.Chave = req.PayerPixKey
	body.Pagador.InfoPagador = req.Description
	body.Favorecido.Chave = req.PixKey

	var resp pixSendResponse
	status, err := c.do(ctx, "send", http.MethodPut, sendPath+url.PathEscape(req.SendID), body, &resp)
	if err != nil {
		return nil, err
	}

	result, err := toResult(resp.IDEnvio, resp.E2EID, resp.Valor, resp.Status, resp.Horario)
	if err != nil {
		return nil, err
	}
	if result.SendID == "" {
		result.SendID = req.SendID
	}
	if result.Rejected() {
		return nil, &Error{Op: "send", Status: status, Name: result.Status, Message: "transfer not completed"}
	}

	c.log.Info().
		Str("send_id", result.SendID).
		Str("end_to_end_id", result.EndToEndID).
		Str("pix_key", pixkey.Mask(req.PixKey)).
		Str("status", result.Status).
		Msg("psp: pix sent")
	return result, nil
}

// FindSent looks a transfer up by idEnvio. An unknown id is (nil, nil).
func (c *Client) FindSent(ctx context.Context, sendID string) (*ports.PixSendResult, error) {
	var resp sentPixResponse
	_, err := c.do(ctx, "lookup", http.MethodGet, sentByIDPath+url.PathEscape(sendID), nil, &resp)
	var pspErr *Error
	if errors.As(err, &pspErr) && pspErr.Op == "lookup" && pspErr.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result, err := toResult(resp.IDEnvio, resp.EndToEndID, resp.Valor, resp.Status, resp.Horario)
	if err != nil {
		return nil, err
	}
	if result.SendID == "" {
		result.SendID = sendID
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (int, error) {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("psp %s: encode: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("psp %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("psp %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		perr := &Error{Op: op, Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var eb pspErrorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Nome != "" {
			perr.Name = eb.Nome
			perr.Message = eb.Mensagem
		}
		return resp.StatusCode, perr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("psp %s: decode response: %w", op, err)
	}
	return resp.StatusCode, nil
}

func toResult(sendID, e2e, valor, status string, h pixHorario) (*ports.PixSendResult, error) {
	result := &ports.PixSendResult{
		SendID:      sendID,
		EndToEndID:  e2e,
		Status:      status,
		RequestedAt: h.Solicitacao,
	}
	if valor != "" {
		amount, err := money.FromValor(valor)
		if err != nil {
			return nil, fmt.Errorf("psp: parse valor %q: %w", valor, err)
		}
		result.Amount = amount
	}
	return result, nil
}
