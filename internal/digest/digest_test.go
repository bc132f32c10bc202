package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"golang.org/x/crypto/bcrypt"
	"strings"
	"testing"
)

func hexSum(alg Algorithm, p []byte) string {
	switch alg.Name() {
	case NameMD5:
		s := md5.Sum(p)
		return hex.EncodeToString(s[:])
	case NameSHA1:
		s := sha1.Sum(p)
		return hex.EncodeToString(s[:])
	case NameSHA256:
		s := sha256.Sum256(p)
		return hex.EncodeToString(s[:])
	case NameSHA512:
		s := sha512.Sum512(p)
		return hex.EncodeToString(s[:])
	}
	panic("not a fast digest: " + string(alg.Name()))
}

func flipBit(t *testing.T, target string, bit int) string {
	t.Helper()
	raw, err := hex.DecodeString(target)
	if err != nil {
		t.Fatalf("decode %q: %v", target, err)
	}
	raw[bit/8] ^= 1 << (bit % 8)
	return hex.EncodeToString(raw)
}

func TestFastDigestKnownVectors(t *testing.T) {
	cases := []struct {
		alg    Algorithm
		input  string
		digest string
	}{
		{MD5, "", "d41d8cd98f00b204e9800998ecf8427e"},
		{MD5, "abc", "900150983cd24fb0d6963f7d28e17f72"},
		{SHA1, "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{SHA256, "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{SHA512, "abc", "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a" +
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}
	for _, tc := range cases {
		if !tc.alg.Matches([]byte(tc.input), tc.digest) {
			t.Errorf("%s(%q): expected match with %s", tc.alg.Name(), tc.input, tc.digest)
		}
	}
}

func TestFastDigestMatchesAndBitFlip(t *testing.T) {
	candidates := []string{"a", "ba", "banana", "p@ssw0rd", strings.Repeat("x", 200)}
	for _, alg := range []Algorithm{MD5, SHA1, SHA256, SHA512} {
		for _, c := range candidates {
			target := hexSum(alg, []byte(c))
			if !alg.Matches([]byte(c), target) {
				t.Errorf("%s(%q): no match with own digest", alg.Name(), c)
			}
			if !alg.Matches([]byte(c), strings.ToUpper(target)) {
				t.Errorf("%s(%q): comparison is case-sensitive", alg.Name(), c)
			}
			for _, bit := range []int{0, 7, len(target)*4 - 1} {
				if alg.Matches([]byte(c), flipBit(t, target, bit)) {
					t.Errorf("%s(%q): matched target with bit %d flipped", alg.Name(), c, bit)
				}
			}
		}
	}
}

func TestFastDigestSumPerVariant(t *testing.T) {
	for _, d := range []*fastDigest{md5Digest, sha1Digest, sha256Digest, sha512Digest} {
		var raw [sha512.Size]byte
		sum := d.sum(&raw, []byte("abc"))
		if len(sum) != d.size {
			t.Errorf("%s: sum is %d bytes, want %d", d.name, len(sum), d.size)
		}
		if got, want := hex.EncodeToString(sum), hexSum(d, []byte("abc")); got != want {
			t.Errorf("%s: sum is %s, want %s", d.name, got, want)
		}
	}
}

func TestFastDigestRejectsWrongLength(t *testing.T) {
	target := hexSum(SHA256, []byte("abc"))
	if MD5.Matches([]byte("abc"), target) {
		t.Error("md5 matched a sha256 target")
	}
	if SHA256.Matches([]byte("abc"), target[:62]) {
		t.Error("sha256 matched a truncated target")
	}
	if MD5.Matches([]byte("abc"), "") {
		t.Error("md5 matched an empty target")
	}
}

func TestBcryptMatches(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	if !Bcrypt.Matches([]byte("hunter2"), string(hash)) {
		t.Error("expected bcrypt match")
	}
	if Bcrypt.Matches([]byte("hunter3"), string(hash)) {
		t.Error("unexpected bcrypt match for wrong password")
	}
}

func TestBcryptMalformedHashIsMismatch(t *testing.T) {
	for _, target := range []string{"", "$2b$", "$2b$99$abcdefghijklmnopqrstuv", "not-a-hash", "$2b$04$short"} {
		if Bcrypt.Matches([]byte("anything"), target) {
			t.Errorf("malformed hash %q matched", target)
		}
	}
}

func TestParse(t *testing.T) {
	cases := map[string]Algorithm{
		"md5":       MD5,
		"MD5":       MD5,
		"sha1":      SHA1,
		"SHA-1":     SHA1,
		"sha256":    SHA256,
		" sha-256 ": SHA256,
		"sha512":    SHA512,
		"bcrypt":    Bcrypt,
	}
	for name, want := range cases {
		got, err := Parse(name)
		if err != nil {
			t.Errorf("Parse(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %s, want %s", name, got.Name(), want.Name())
		}
	}
	if _, err := Parse("whirlpool"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestDetect(t *testing.T) {
	bhash, err := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		target string
		want   Algorithm
	}{
		{hexSum(MD5, []byte("a")), MD5},
		{strings.ToUpper(hexSum(MD5, []byte("a"))), MD5},
		{hexSum(SHA1, []byte("a")), SHA1},
		{hexSum(SHA256, []byte("a")), SHA256},
		{"  " + hexSum(SHA512, []byte("a")) + "\n", SHA512},
		{string(bhash), Bcrypt},
		{"$2y$10$abcdefghijklmnopqrstuuabcdefghijklmnopqrstuvwxyz01234", Bcrypt},
	}
	for _, tc := range cases {
		got, err := Detect(tc.target)
		if err != nil {
			t.Errorf("Detect(%q): %v", tc.target, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Detect(%q) = %s, want %s", tc.target, got.Name(), tc.want.Name())
		}
	}
	for _, target := range []string{"", "abc", strings.Repeat("g", 32), strings.Repeat("a", 33), "$1$salt$hash"} {
		if _, err := Detect(target); !errors.Is(err, ErrUndetectable) {
			t.Errorf("Detect(%q): expected ErrUndetectable, got %v", target, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(MD5, " ABCDEF "); got != "abcdef" {
		t.Errorf("got %q", got)
	}
	if got := Normalize(Bcrypt, " $2b$04$AbC "); got != "$2b$04$AbC" {
		t.Errorf("got %q", got)
	}
}

func TestKinds(t *testing.T) {
	for _, alg := range All() {
		want := KindFast
		if alg.Name() == NameBcrypt {
			want = KindAdaptive
		}
		if alg.Kind() != want {
			t.Errorf("%s: kind %s, want %s", alg.Name(), alg.Kind(), want)
		}
	}
}
