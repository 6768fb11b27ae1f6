// Package identity derives addresses from public keys and signs messages.
package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mr-tron/base58"
)

// AddressPrefix marks a string as a vbits address.
const AddressPrefix = "V"

var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidSignature = errors.New("invalid signature encoding")
)

// Address identifies the owner of a key pair.
type Address string

func (a Address) String() string { return string(a) }

// DeriveAddress returns "V" followed by the base58 sha256 of the DER-encoded key.
func DeriveAddress(pub ed25519.PublicKey) (Address, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(pub))
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	sum := sha256.Sum256(der)
	return Address(AddressPrefix + base58.Encode(sum[:])), nil
}

// ParseAddress checks that s has the shape DeriveAddress produces.
func ParseAddress(s string) (Address, error) {
	body, ok := strings.CutPrefix(s, AddressPrefix)
	if !ok {
		return "", fmt.Errorf("%w %q: missing %q prefix", ErrInvalidAddress, s, AddressPrefix)
	}
	raw, err := base58.Decode(body)
	if err != nil || len(raw) != sha256.Size {
		return "", fmt.Errorf("%w %q", ErrInvalidAddress, s)
	}
	return Address(s), nil
}

// Signer is the capability the ledger needs from a key holder.
type Signer interface {
	PublicKey() ed25519.PublicKey
	Address() Address
	Sign(msg []byte) []byte
}

// Keypair is an ed25519 key pair. Signatures are deterministic.
type Keypair struct {
	private ed25519.PrivateKey
	address Address
}

// NewKeypair wraps an existing private key.
func NewKeypair(priv ed25519.PrivateKey) (*Keypair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key size %d", len(priv))
	}
	addr, err := DeriveAddress(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{private: priv, address: addr}, nil
}

// Generate creates a key pair from rand (crypto/rand when nil).
func Generate(rand io.Reader) (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return NewKeypair(priv)
}

// FromSeed derives a key pair from a 32-byte seed.
func FromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed size %d", len(seed))
	}
	return NewKeypair(ed25519.NewKeyFromSeed(seed))
}

func (k *Keypair) PublicKey() ed25519.PublicKey { return k.private.Public().(ed25519.PublicKey) }
func (k *Keypair) Address() Address             { return k.address }
func (k *Keypair) Sign(msg []byte) []byte       { return ed25519.Sign(k.private, msg) }

// Verify reports whether sig is a valid signature of msg by pub.
func Verify(pub ed25519.PublicKey, sig, msg []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}

// EncodePublicKey renders a public key as base58 text.
func EncodePublicKey(pub ed25519.PublicKey) string { return base58.Encode(pub) }

// DecodePublicKey parses the output of EncodePublicKey.
func DecodePublicKey(s string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	return ed25519.PublicKey(raw), nil
}

// EncodeSignature renders a signature as base58 text.
func EncodeSignature(sig []byte) string { return base58.Encode(sig) }

// DecodeSignature parses the output of EncodeSignature.
func DecodeSignature(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != ed25519.SignatureSize {
		return nil, ErrInvalidSignature
	}
	return raw, nil
}
