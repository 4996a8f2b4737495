package certs

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ErrNoCertificate is returned by GetCertificate before the first
// successful load.
var ErrNoCertificate = errors.New("no certificate loaded")

// Reloader holds the admin listener's certificate and reloads it when the
// certificate or key file changes on disk.
type Reloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	cert     *tls.Certificate
	leaf     *x509.Certificate
	certTime time.Time
	keyTime  time.Time
	lastErr  error
}

// NewReloader creates a reloader that polls the files every interval.
func NewReloader(certFile, keyFile string, interval time.Duration) *Reloader {
	return &Reloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   slog.Default().With("component", "server.certs"),
		now:      time.Now,
	}
}

// Start loads the certificate and polls for changes until ctx is done.
func (r *Reloader) Start(ctx context.Context) error {
	if err := r.reload(); err != nil {
		return err
	}
	r.logCertificate()

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.reloadIfChanged()
			}
		}
	}()
	return nil
}

// reloadIfChanged reloads when either file is newer than the loaded copy.
// A failed reload keeps the previous certificate.
func (r *Reloader) reloadIfChanged() {
	if !r.changed() {
		return
	}
	err := r.reload()

	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("failed to reload certificate",
			"error", err,
			"cert_file", r.certFile,
			"key_file", r.keyFile,
		)
		return
	}
	r.logger.Info("certificate reloaded", "cert_file", r.certFile)
	r.logCertificate()
}

func (r *Reloader) changed() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return certInfo.ModTime().After(r.certTime) || keyInfo.ModTime().After(r.keyTime)
}

func (r *Reloader) reload() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return err
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return err
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	x509Cert, err := leaf(&cert)
	if err != nil {
		return err
	}
	if err := validAt(x509Cert, r.now()); err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.leaf = x509Cert
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.mu.Unlock()
	return nil
}

// Certificate returns the loaded certificate, or nil before Start.
func (r *Reloader) Certificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	if cert := r.Certificate(); cert != nil {
		return cert, nil
	}
	return nil, ErrNoCertificate
}

// NotAfter returns when the loaded certificate expires.
func (r *Reloader) NotAfter() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.leaf == nil {
		return time.Time{}
	}
	return r.leaf.NotAfter
}

// Check is a readiness check. It fails when no certificate is loaded, the
// loaded one has expired, or the last reload failed.
func (r *Reloader) Check(context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.leaf == nil {
		return ErrNoCertificate
	}
	if err := validAt(r.leaf, r.now()); err != nil {
		return err
	}
	if r.lastErr != nil {
		return fmt.Errorf("certificate reload failed: %w", r.lastErr)
	}
	return nil
}

func (r *Reloader) logCertificate() {
	r.mu.RLock()
	cert := r.leaf
	r.mu.RUnlock()
	if cert == nil {
		return
	}

	remaining := cert.NotAfter.Sub(r.now())
	attrs := []any{
		"subject", cert.Subject.CommonName,
		"issuer", cert.Issuer.CommonName,
		"expires_in_days", int(remaining.Hours() / 24),
		"expires_at", cert.NotAfter.Format(time.RFC3339),
	}
	if remaining < ExpiryWarning {
		r.logger.Warn("certificate expiring soon", attrs...)
		return
	}
	r.logger.Info("certificate loaded", attrs...)
}
