package psp

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// CertificateSource names where the PSP client certificate lives: either a
// PKCS#12 bundle or a PEM certificate and key pair.
type CertificateSource struct {
	P12File     string
	P12Password string
	CertFile    string
	KeyFile     string
}

// LoadCertificate reads the client certificate presented to the PSP.
func LoadCertificate(src CertificateSource) (tls.Certificate, error) {
	if src.P12File != "" {
		data, err := os.ReadFile(src.P12File)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("read p12 bundle: %w", err)
		}
		return CertificateFromP12(data, src.P12Password)
	}
	if src.CertFile == "" || src.KeyFile == "" {
		return tls.Certificate{}, errors.New("psp client certificate not configured")
	}
	cert, err := tls.LoadX509KeyPair(src.CertFile, src.KeyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load psp certificate: %w", err)
	}
	return cert, nil
}

// CertificateFromP12 converts a PKCS#12 bundle into a TLS certificate.
func CertificateFromP12(data []byte, password string) (tls.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decode p12 bundle: %w", err)
	}
	var pemData []byte
	for _, b := range blocks {
		pemData = append(pemData, pem.EncodeToMemory(b)...)
	}
	cert, err := tls.X509KeyPair(pemData, pemData)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("build certificate from p12: %w", err)
	}
	return cert, nil
}

// LoadCertPool reads PEM CA certificates into a pool.
func LoadCertPool(file string) (*x509.CertPool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read ca file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("no certificates found in %s", file)
	}
	return pool, nil
}
