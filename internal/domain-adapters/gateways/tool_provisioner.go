package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

// SignatureVerifier checks a detached signature over downloaded content.
type SignatureVerifier interface {
	VerifyDetached(signed io.Reader, signature []byte) error
}

// maxSignatureSize bounds detached signature downloads. Real signatures are a
// few hundred bytes.
const maxSignatureSize = 10 * 1024

// ToolProvisioner downloads the pinned up CLI to a fixed path, verifying its
// checksum and optionally a detached signature. A binary already at the path
// is trusted and left alone, so repeated runs download nothing.
type ToolProvisioner struct {
	params     entities.ToolParams
	verifier   SignatureVerifier
	httpClient *http.Client
	goarch     string
}

// NewToolProvisioner creates a provisioner for the configured tool version.
// verifier may be nil when no signature URL is configured.
func NewToolProvisioner(params entities.ToolParams, verifier SignatureVerifier) *ToolProvisioner {
	return &ToolProvisioner{
		params:   params,
		verifier: verifier,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // Long timeout for large downloads
		},
		goarch: runtime.GOARCH,
	}
}

// DownloadURL returns the release URL for the pinned version on this host.
// The vendor publishes linux builds for amd64 and arm64 only.
func (p *ToolProvisioner) DownloadURL() string {
	arch := "amd64"
	if p.goarch == "arm64" {
		arch = "arm64"
	}
	return fmt.Sprintf("%s/%s/bin/linux_%s/up", p.params.BaseURL, p.params.Version, arch)
}

// Ensure makes the binary available at the configured path and returns that
// path. The download lands in a temp file in the same directory and is
// renamed into place only after every check passes; a failed run leaves no
// partial or unverified binary behind.
func (p *ToolProvisioner) Ensure(ctx context.Context) (string, error) {
	path := p.params.Path
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("failed to create tool directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "up-download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	//nolint:errcheck // Temp file cleanup; already renamed away on success
	defer os.Remove(tmpPath)

	sum, err := p.download(ctx, tmp)
	closeErr := tmp.Close()
	if err != nil {
		return "", err
	}
	if closeErr != nil {
		return "", fmt.Errorf("failed to finish writing download: %w", closeErr)
	}

	if p.params.SHA256 != "" && !strings.EqualFold(sum, p.params.SHA256) {
		return "", fmt.Errorf("checksum mismatch for %s: expected %s, got %s", p.DownloadURL(), p.params.SHA256, sum)
	}

	if p.params.SignatureURL != "" {
		if err := p.verifySignature(ctx, tmpPath); err != nil {
			return "", err
		}
	}

	//nolint:gosec // G302: the provisioned tool must be executable
	if err := os.Chmod(tmpPath, 0755); err != nil {
		return "", fmt.Errorf("failed to mark binary executable: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to move binary into place: %w", err)
	}

	return path, nil
}

// download streams the release into w and returns its hex SHA256.
func (p *ToolProvisioner) download(ctx context.Context, w io.Writer) (string, error) {
	url := p.DownloadURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "xpkg-release/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: HTTP %d: %s", url, resp.StatusCode, resp.Status)
	}

	h := sha256.New()
	if _, err := io.Copy(w, io.TeeReader(resp.Body, h)); err != nil {
		return "", fmt.Errorf("failed to write download: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// verifySignature fetches the detached signature and checks it against the
// downloaded file.
func (p *ToolProvisioner) verifySignature(ctx context.Context, binPath string) error {
	if p.verifier == nil {
		return fmt.Errorf("signature URL configured but no verifier available")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.params.SignatureURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create signature request: %w", err)
	}
	req.Header.Set("User-Agent", "xpkg-release/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading signature %s: %w", p.params.SignatureURL, err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading signature %s: HTTP %d: %s", p.params.SignatureURL, resp.StatusCode, resp.Status)
	}

	signature, err := io.ReadAll(io.LimitReader(resp.Body, maxSignatureSize))
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}

	//nolint:gosec // G304: Path is the temp file this provisioner just wrote
	f, err := os.Open(binPath)
	if err != nil {
		return fmt.Errorf("failed to reopen download for verification: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if err := p.verifier.VerifyDetached(f, signature); err != nil {
		return fmt.Errorf("signature verification failed for %s: %w", p.DownloadURL(), err)
	}

	return nil
}
