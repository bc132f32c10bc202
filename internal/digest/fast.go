package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
)

type fastDigest struct {
	name Name
	size int
	sum  func(dst *[sha512.Size]byte, p []byte) []byte
}

var (
	md5Digest    = &fastDigest{name: NameMD5, size: md5.Size, sum: sumMD5}
	sha1Digest   = &fastDigest{name: NameSHA1, size: sha1.Size, sum: sumSHA1}
	sha256Digest = &fastDigest{name: NameSHA256, size: sha256.Size, sum: sumSHA256}
	sha512Digest = &fastDigest{name: NameSHA512, size: sha512.Size, sum: sumSHA512}
)

func (d *fastDigest) Name() Name { return d.name }

func (d *fastDigest) Kind() Kind { return KindFast }

func (d *fastDigest) sealed() {}

// Matches hashes candidate and compares its lowercase hex form to target
// ignoring case.
func (d *fastDigest) Matches(candidate []byte, target string) bool {
	if len(target) != 2*d.size {
		return false
	}
	var raw [sha512.Size]byte
	var hexed [2 * sha512.Size]byte
	n := hex.Encode(hexed[:], d.sum(&raw, candidate))
	return equalFold(hexed[:n], target)
}

// The sum functions write the digest of p into dst and return the used
// prefix, so Matches needs no allocation.

func sumMD5(dst *[sha512.Size]byte, p []byte) []byte {
	s := md5.Sum(p)
	return dst[:copy(dst[:], s[:])]
}

func sumSHA1(dst *[sha512.Size]byte, p []byte) []byte {
	s := sha1.Sum(p)
	return dst[:copy(dst[:], s[:])]
}

func sumSHA256(dst *[sha512.Size]byte, p []byte) []byte {
	s := sha256.Sum256(p)
	return dst[:copy(dst[:], s[:])]
}

func sumSHA512(dst *[sha512.Size]byte, p []byte) []byte {
	s := sha512.Sum512(p)
	return dst[:copy(dst[:], s[:])]
}

// equalFold reports whether the lowercase hex in lower equals target under
// ASCII case folding.
func equalFold(lower []byte, target string) bool {
	if len(lower) != len(target) {
		return false
	}
	for i := 0; i < len(target); i++ {
		c := target[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}
