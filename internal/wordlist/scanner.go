// Package wordlist scans pre-loaded word lists and loads them from files.
package wordlist

// Comparator is satisfied by digest.Algorithm.
type Comparator interface {
	Matches(candidate []byte, target string) bool
}

// Scan returns the first word whose digest matches target. Words are tried
// in order on the calling goroutine and are never modified.
func Scan(words []string, target string, cmp Comparator) (string, bool) {
	for _, w := range words {
		if cmp.Matches([]byte(w), target) {
			return w, true
		}
	}
	return "", false
}
