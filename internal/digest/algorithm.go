// Package digest implements the hash comparison layer. Every supported
// algorithm is a variant of the sealed Algorithm interface and carries its
// own comparison strategy.
package digest

import (
	"github.com/pkg/errors"
	"strings"
)

type Name string

const (
	NameMD5    Name = "md5"
	NameSHA1   Name = "sha1"
	NameSHA256 Name = "sha256"
	NameSHA512 Name = "sha512"
	NameBcrypt Name = "bcrypt"
)

// Kind separates single fast digests from adaptive-cost schemes.
type Kind int

const (
	KindFast Kind = iota
	KindAdaptive
)

func (k Kind) String() string {
	if k == KindAdaptive {
		return "adaptive"
	}
	return "fast"
}

var (
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
	ErrUndetectable     = errors.New("cannot detect hash algorithm")
)

// Algorithm compares candidates against a target hash. Implementations are
// stateless and safe for concurrent use. Matches never fails: anything that
// prevents verification counts as a mismatch.
type Algorithm interface {
	Name() Name
	Kind() Kind
	Matches(candidate []byte, target string) bool
	sealed()
}

var (
	MD5    Algorithm = md5Digest
	SHA1   Algorithm = sha1Digest
	SHA256 Algorithm = sha256Digest
	SHA512 Algorithm = sha512Digest
	Bcrypt Algorithm = bcryptScheme{}
)

var algorithms = []Algorithm{MD5, SHA1, SHA256, SHA512, Bcrypt}

// All returns every supported algorithm.
func All() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// Parse resolves an algorithm name such as "sha256" or "SHA-256".
func Parse(name string) (Algorithm, error) {
	n := Name(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", ""))
	for _, a := range algorithms {
		if a.Name() == n {
			return a, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
}

// Normalize returns the canonical form of target for alg: trimmed, and
// lowercased for fast digests. Adaptive hashes are case-sensitive.
func Normalize(alg Algorithm, target string) string {
	target = strings.TrimSpace(target)
	if alg.Kind() == KindFast {
		return strings.ToLower(target)
	}
	return target
}
