package object

import (
	"crypto/sha256"
	"fmt"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Algo names the hash used to address objects.
type Algo string

const (
	SHA256  Algo = "sha256"
	XXH3    Algo = "xxh3"
	BLAKE2B Algo = "blake2b"
)

// ParseAlgo validates an algorithm name from configuration.
func ParseAlgo(name string) (Algo, error) {
	switch Algo(name) {
	case SHA256, XXH3, BLAKE2B:
		return Algo(name), nil
	case "":
		return SHA256, nil
	}
	return "", fmt.Errorf("unknown object hash %q", name)
}

// Sum returns the hex-encoded object id of data.
func (a Algo) Sum(data []byte) string {
	switch a {
	case XXH3:
		return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
	case BLAKE2B:
		return fmt.Sprintf("%x", blake2b.Sum256(data))
	default:
		return fmt.Sprintf("%x", sha256.Sum256(data))
	}
}
