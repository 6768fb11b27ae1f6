package identity

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"

	"github.com/keshon/vbits/internal/fs"
	"github.com/keshon/vbits/internal/util"
)

const pemType = "PRIVATE KEY"

// LoadKeyFile reads a PKCS#8 PEM ed25519 private key.
func LoadKeyFile(fsys fs.FS, path string) (*Keypair, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file %q: %w", path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemType {
		return nil, fmt.Errorf("key file %q: no %s block", path, pemType)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("key file %q: %w", path, err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key file %q: not an ed25519 key", path)
	}
	return NewKeypair(priv)
}

// SaveKeyFile writes k as a PKCS#8 PEM file readable only by its owner.
func SaveKeyFile(fsys fs.FS, path string, k *Keypair) error {
	der, err := x509.MarshalPKCS8PrivateKey(k.private)
	if err != nil {
		return fmt.Errorf("encode key: %w", err)
	}
	data := pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: der})
	if err := util.WriteFileAtomic(fsys, path, data, 0o600); err != nil {
		return fmt.Errorf("write key file %q: %w", path, err)
	}
	return nil
}

// LoadOrGenerate loads the key at path, generating and saving a new one
// when the file does not exist. created reports which happened.
func LoadOrGenerate(fsys fs.FS, path string, logger *slog.Logger) (k *Keypair, created bool, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	if fsys.Exists(path) {
		k, err = LoadKeyFile(fsys, path)
		return k, false, err
	}

	k, err = Generate(nil)
	if err != nil {
		return nil, false, err
	}
	if err := SaveKeyFile(fsys, path, k); err != nil {
		return nil, false, err
	}
	logger.Info("generated new key", "path", path, "address", k.Address())
	return k, true, nil
}
