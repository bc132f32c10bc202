// Package potfile remembers hashes that were already recovered so repeated
// requests are answered without searching again.
package potfile

import (
	"context"
	"github.com/pkg/errors"
	"github.com/ykhdr/hashcrack/internal/digest"
	"time"
)

var ErrNotFound = errors.New("potfile entry not found")

type Entry struct {
	ID        string      `bson:"_id"`
	Algorithm digest.Name `bson:"algorithm"`
	Hash      string      `bson:"hash"`
	Plaintext string      `bson:"plaintext"`
	CrackedAt time.Time   `bson:"cracked_at"`
}

func NewEntry(alg digest.Algorithm, hash, plaintext string) *Entry {
	hash = digest.Normalize(alg, hash)
	return &Entry{
		ID:        Key(alg.Name(), hash),
		Algorithm: alg.Name(),
		Hash:      hash,
		Plaintext: plaintext,
		CrackedAt: time.Now().UTC(),
	}
}

func (e *Entry) Copy() *Entry {
	c := *e
	return &c
}

// Key identifies a normalized hash of one algorithm.
func Key(alg digest.Name, normalizedHash string) string {
	return string(alg) + ":" + normalizedHash
}

type Store interface {
	Get(ctx context.Context, alg digest.Algorithm, hash string) (*Entry, error)
	Save(ctx context.Context, entry *Entry) error
}
