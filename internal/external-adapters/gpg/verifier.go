// Package gpg verifies detached signatures using ProtonMail's go-crypto, a
// maintained fork of golang.org/x/crypto/openpgp.
package gpg

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

var armorHeader = []byte("-----BEGIN PGP SIGNATURE---")

// Verifier checks detached signatures against a locally stored keyring. Only
// keys loaded from the configured keyring file are trusted; nothing is
// fetched from keyservers.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier with an empty keyring.
func NewVerifier() *Verifier {
	return &Verifier{keyring: make(openpgp.EntityList, 0)}
}

// LoadKeyringFile adds all keys from an armored or binary keyring file.
func (v *Verifier) LoadKeyringFile(path string) error {
	//nolint:gosec // G304: keyring path comes from operator configuration
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open keyring file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Not armored; retry as binary.
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return fmt.Errorf("failed to reset keyring file: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return fmt.Errorf("failed to read keyring: %w", err)
		}
	}

	if len(entities) == 0 {
		return fmt.Errorf("no keys found in %s", path)
	}

	v.keyring = append(v.keyring, entities...)
	return nil
}

// KeyringSize returns the number of loaded keys.
func (v *Verifier) KeyringSize() int {
	return len(v.keyring)
}

// VerifyDetached checks a detached signature over signed. Armored and binary
// signatures are both accepted.
func (v *Verifier) VerifyDetached(signed io.Reader, signature []byte) error {
	if len(v.keyring) == 0 {
		return fmt.Errorf("no keys loaded, load a keyring first")
	}
	if len(signature) < 10 {
		return fmt.Errorf("signature too small to be a detached signature")
	}

	var err error
	if bytes.HasPrefix(signature, armorHeader) {
		_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, signed, bytes.NewReader(signature), nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(v.keyring, signed, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	return nil
}
