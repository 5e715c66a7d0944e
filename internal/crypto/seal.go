package crypto

import (
	"crypto/cipher"
	"crypto/rand"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// Current version of the sealed blob layout: version || nonce || ciphertext.
const sealFormatVersion = 1

// Salt for deriving the sealing key. The secret is per deployment, so a
// fixed label suffices.
var sealSalt = []byte("cardlink/relay/seal/v1")

// ErrUnseal is returned when a blob was tampered with, sealed under another
// key, or bound to another session.
var ErrUnseal = errors.New("crypto: cannot open sealed payload")

// Sealer encrypts payloads with XChaCha20-Poly1305.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the sealing key from secret with scrypt.
func NewSealer(secret []byte) (*Sealer, error) {
	if len(secret) == 0 {
		return nil, errors.New("crypto: empty seal secret")
	}
	N, r, p := scryptParamsDefault()
	key, err := scrypt.Key(secret, sealSalt, N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "crypto: derive seal key")
	}
	defer Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "crypto: init aead")
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext bound to ad.
func (s *Sealer) Seal(plaintext, ad []byte) ([]byte, error) {
	out := make([]byte, 1+s.aead.NonceSize(), 1+s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	out[0] = sealFormatVersion
	nonce := out[1:]
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "crypto: nonce")
	}
	return s.aead.Seal(out, nonce, plaintext, ad), nil
}

// Open reverses Seal. ad must match the value given to Seal.
func (s *Sealer) Open(sealed, ad []byte) ([]byte, error) {
	hdr := 1 + s.aead.NonceSize()
	if len(sealed) < hdr+s.aead.Overhead() {
		return nil, ErrUnseal
	}
	if sealed[0] != sealFormatVersion {
		return nil, errors.Errorf("crypto: unsupported seal version %d", sealed[0])
	}
	pt, err := s.aead.Open(nil, sealed[1:hdr], sealed[hdr:], ad)
	if err != nil {
		return nil, ErrUnseal
	}
	return pt, nil
}

// Tunables for scrypt key derivation.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }
