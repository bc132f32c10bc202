// Package candidate maps search indices to fixed-length strings over an
// alphabet. Index i of length L is the L-digit base-len(alphabet) expansion
// of i, most significant digit first, digit 0 being alphabet[0].
package candidate

import "math/bits"

// MaxLength is the longest candidate any search accepts. A base of two or
// more overflows a uint64 index space before this length.
const MaxLength = 64

// Encode writes the candidate for index into every position of buf and
// returns buf. The length of the candidate is len(buf).
// index must be below len(alphabet)^len(buf).
func Encode(buf []byte, index uint64, alphabet []byte) []byte {
	base := uint64(len(alphabet))
	for p := len(buf) - 1; p >= 0; p-- {
		buf[p] = alphabet[index%base]
		index /= base
	}
	return buf
}

// Decode returns the index of candidate. A symbol that occurs several
// times in alphabet decodes to its first position.
func Decode(candidate []byte, alphabet []byte) (uint64, bool) {
	var digits [256]int
	for i := range digits {
		digits[i] = -1
	}
	for i := len(alphabet) - 1; i >= 0; i-- {
		digits[alphabet[i]] = i
	}
	base := uint64(len(alphabet))
	var index uint64
	for _, c := range candidate {
		d := digits[c]
		if d < 0 {
			return 0, false
		}
		index = index*base + uint64(d)
	}
	return index, true
}

// Total returns base^length, the size of the index space, and false if it
// does not fit in a uint64.
func Total(base, length int) (uint64, bool) {
	if base <= 0 || length < 0 {
		return 0, false
	}
	if base == 1 {
		return 1, true
	}
	if length >= MaxLength {
		return 0, false
	}
	total := uint64(1)
	for range length {
		hi, lo := bits.Mul64(total, uint64(base))
		if hi != 0 {
			return 0, false
		}
		total = lo
	}
	return total, true
}
