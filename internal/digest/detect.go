package digest

import (
	"github.com/pkg/errors"
	"strings"
)

// Detect guesses the algorithm from the shape of target: a bcrypt prefix,
// otherwise the length of a hex string (32, 40, 64 or 128 digits).
func Detect(target string) (Algorithm, error) {
	t := strings.TrimSpace(target)
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(t, p) {
			return Bcrypt, nil
		}
	}
	if !isHex(t) {
		return nil, errors.Wrap(ErrUndetectable, "not a hex digest")
	}
	switch len(t) {
	case 32:
		return MD5, nil
	case 40:
		return SHA1, nil
	case 64:
		return SHA256, nil
	case 128:
		return SHA512, nil
	}
	return nil, errors.Wrapf(ErrUndetectable, "unexpected digest length %d", len(t))
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9':
		case 'a' <= c && c <= 'f':
		case 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}
