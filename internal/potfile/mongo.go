package potfile

import (
	"context"
	"github.com/pkg/errors"
	"github.com/ykhdr/hashcrack/internal/digest"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"sync"
)

const Collection = "potfile"

// mongoStore caches entries in memory in front of a mongo collection.
type mongoStore struct {
	collection *mongo.Collection
	m          sync.RWMutex
	cache      map[string]*Entry
}

func NewMongoStore(database *mongo.Database) Store {
	return &mongoStore{
		collection: database.Collection(Collection),
		cache:      make(map[string]*Entry),
	}
}

func (s *mongoStore) Get(ctx context.Context, alg digest.Algorithm, hash string) (*Entry, error) {
	id := Key(alg.Name(), digest.Normalize(alg, hash))
	s.m.RLock()
	e, ok := s.cache[id]
	s.m.RUnlock()
	if ok {
		return e.Copy(), nil
	}
	var found Entry
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&found)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find potfile entry")
	}
	s.m.Lock()
	s.cache[id] = found.Copy()
	s.m.Unlock()
	return &found, nil
}

func (s *mongoStore) Save(ctx context.Context, entry *Entry) error {
	update := bson.M{
		"$set": bson.M{
			"algorithm":  entry.Algorithm,
			"hash":       entry.Hash,
			"plaintext":  entry.Plaintext,
			"cracked_at": entry.CrackedAt,
		},
	}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": entry.ID}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, "save potfile entry")
	}
	s.m.Lock()
	s.cache[entry.ID] = entry.Copy()
	s.m.Unlock()
	return nil
}
