package jobstore

import (
	"context"
	"github.com/pkg/errors"
	"github.com/ykhdr/hashcrack/internal/job"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"sync"
)

const JobCollection = "jobs"

// mongoStore keeps jobs in a collection with a cache of every job this
// process has seen.
type mongoStore struct {
	collection *mongo.Collection
	m          sync.RWMutex
	cache      map[job.Id]*job.Info
}

func NewMongoStore(database *mongo.Database) Store {
	return &mongoStore{
		collection: database.Collection(JobCollection),
		cache:      make(map[job.Id]*job.Info),
	}
}

func (s *mongoStore) Get(ctx context.Context, id job.Id) (*job.Info, error) {
	s.m.RLock()
	info, ok := s.cache[id]
	s.m.RUnlock()
	if ok {
		return info.Copy(), nil
	}
	var found job.Info
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&found)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find job")
	}
	s.m.Lock()
	s.cache[id] = found.Copy()
	s.m.Unlock()
	return &found, nil
}

func (s *mongoStore) Save(ctx context.Context, info *job.Info) error {
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": info.ID}, info, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, "save job")
	}
	s.m.Lock()
	s.cache[info.ID] = info.Copy()
	s.m.Unlock()
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, id job.Id) error {
	s.m.Lock()
	delete(s.cache, id)
	s.m.Unlock()
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(err, "delete job")
	}
	return nil
}
