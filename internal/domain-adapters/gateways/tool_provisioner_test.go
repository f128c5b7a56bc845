package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

type stubVerifier struct {
	signed    []byte
	signature []byte
	err       error
}

func (s *stubVerifier) VerifyDetached(signed io.Reader, signature []byte) error {
	data, err := io.ReadAll(signed)
	if err != nil {
		return err
	}
	s.signed = data
	s.signature = signature
	return s.err
}

func TestToolProvisioner_DownloadURL(t *testing.T) {
	params := entities.ToolParams{
		Version: "v0.28.0",
		BaseURL: "https://cli.upbound.io/stable",
	}

	p := NewToolProvisioner(params, nil)
	p.goarch = "amd64"
	if got, want := p.DownloadURL(), "https://cli.upbound.io/stable/v0.28.0/bin/linux_amd64/up"; got != want {
		t.Errorf("DownloadURL() = %v, want %v", got, want)
	}

	p.goarch = "arm64"
	if got, want := p.DownloadURL(), "https://cli.upbound.io/stable/v0.28.0/bin/linux_arm64/up"; got != want {
		t.Errorf("DownloadURL() = %v, want %v", got, want)
	}
}

func TestToolProvisioner_Ensure_DownloadsOnce(t *testing.T) {
	content := []byte("#!/bin/sh\necho up\n")
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/v0.28.0/bin/linux_amd64/up" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(content)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), ".cache", "up")
	p := NewToolProvisioner(entities.ToolParams{
		Version: "v0.28.0",
		BaseURL: server.URL,
		Path:    path,
	}, nil)
	p.goarch = "amd64"

	got, err := p.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got != path {
		t.Errorf("Ensure() = %v, want %v", got, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading installed binary: %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("installed binary content = %q, want %q", data, content)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("installed binary mode = %v, want 0755", info.Mode().Perm())
	}

	if _, err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("download requests = %d, want 1", n)
	}
}

func TestToolProvisioner_Ensure_ChecksumMatch(t *testing.T) {
	content := []byte("binary payload")
	sum := sha256.Sum256(content)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(content)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "up")
	p := NewToolProvisioner(entities.ToolParams{
		Version: "v0.28.0",
		BaseURL: server.URL,
		Path:    path,
		SHA256:  strings.ToUpper(hex.EncodeToString(sum[:])),
	}, nil)
	p.goarch = "amd64"

	if _, err := p.Ensure(context.Background()); err != nil {
		t.Errorf("Ensure() error = %v, want nil for matching checksum", err)
	}
}

func TestToolProvisioner_Ensure_ChecksumMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("binary payload"))
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "up")
	p := NewToolProvisioner(entities.ToolParams{
		Version: "v0.28.0",
		BaseURL: server.URL,
		Path:    path,
		SHA256:  strings.Repeat("a", 64),
	}, nil)
	p.goarch = "amd64"

	_, err := p.Ensure(context.Background())
	if err == nil {
		t.Fatal("Ensure() = nil, want checksum mismatch error")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("Ensure() error = %v, want checksum mismatch", err)
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("binary installed despite checksum mismatch: %v", statErr)
	}
}

func TestToolProvisioner_Ensure_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	p := NewToolProvisioner(entities.ToolParams{
		Version: "v0.28.0",
		BaseURL: server.URL,
		Path:    filepath.Join(t.TempDir(), "up"),
	}, nil)
	p.goarch = "amd64"

	_, err := p.Ensure(context.Background())
	if err == nil {
		t.Fatal("Ensure() = nil, want HTTP error")
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("Ensure() error = %v, want HTTP 404", err)
	}
}

func TestToolProvisioner_Ensure_ExistingBinarySkipsDownload(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("new bits"))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "up")
	if err := os.WriteFile(path, []byte("old bits"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := NewToolProvisioner(entities.ToolParams{
		Version: "v0.28.0",
		BaseURL: server.URL,
		Path:    path,
	}, nil)
	p.goarch = "amd64"

	got, err := p.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got != path {
		t.Errorf("Ensure() = %v, want %v", got, path)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("download requests = %d, want 0 for existing binary", n)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "old bits" {
		t.Errorf("existing binary overwritten: %q", data)
	}
}

func TestToolProvisioner_Ensure_SignatureVerified(t *testing.T) {
	content := []byte("binary payload")
	signature := []byte("detached signature bytes")

	mux := http.NewServeMux()
	mux.HandleFunc("/v0.28.0/bin/linux_amd64/up", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(content)
	})
	mux.HandleFunc("/up.asc", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(signature)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	verifier := &stubVerifier{}
	path := filepath.Join(t.TempDir(), "up")
	p := NewToolProvisioner(entities.ToolParams{
		Version:      "v0.28.0",
		BaseURL:      server.URL,
		Path:         path,
		SignatureURL: server.URL + "/up.asc",
		KeyringPath:  "unused-here",
	}, verifier)
	p.goarch = "amd64"

	if _, err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	if string(verifier.signed) != string(content) {
		t.Errorf("verifier saw signed content %q, want %q", verifier.signed, content)
	}
	if string(verifier.signature) != string(signature) {
		t.Errorf("verifier saw signature %q, want %q", verifier.signature, signature)
	}
}

func TestToolProvisioner_Ensure_SignatureRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v0.28.0/bin/linux_amd64/up", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("binary payload"))
	})
	mux.HandleFunc("/up.asc", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("bogus"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	verifier := &stubVerifier{err: io.ErrUnexpectedEOF}
	path := filepath.Join(t.TempDir(), "up")
	p := NewToolProvisioner(entities.ToolParams{
		Version:      "v0.28.0",
		BaseURL:      server.URL,
		Path:         path,
		SignatureURL: server.URL + "/up.asc",
	}, verifier)
	p.goarch = "amd64"

	_, err := p.Ensure(context.Background())
	if err == nil {
		t.Fatal("Ensure() = nil, want signature verification error")
	}
	if !strings.Contains(err.Error(), "signature verification failed") {
		t.Errorf("Ensure() error = %v, want signature verification failure", err)
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("binary installed despite rejected signature")
	}
}
