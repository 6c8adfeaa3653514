package repository

import (
	"context"
	"fmt"

	"restaurant-ops/internal/common/logger"
	"restaurant-ops/internal/domain"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeSource delivers change events into out until ctx is canceled or the
// underlying stream fails. Sends block when out is full.
type ChangeSource interface {
	Watch(ctx context.Context, out chan<- domain.ChangeEvent) error
}

type MongoChangeSource struct {
	coll *mongo.Collection
	ops  []string
	log  zerolog.Logger
}

// NewOrderInsertSource watches newly inserted orders.
func NewOrderInsertSource(db *mongo.Database) *MongoChangeSource {
	return newMongoChangeSource(db.Collection(domain.CollOrders), domain.OpInsert)
}

// NewTableChangeSource watches inserted, updated and replaced tables.
func NewTableChangeSource(db *mongo.Database) *MongoChangeSource {
	return newMongoChangeSource(db.Collection(domain.CollTables), domain.OpInsert, domain.OpUpdate, domain.OpReplace)
}

func newMongoChangeSource(coll *mongo.Collection, ops ...string) *MongoChangeSource {
	return &MongoChangeSource{
		coll: coll,
		ops:  ops,
		log:  logger.New("change-source").With().Str("collection", coll.Name()).Logger(),
	}
}

func (s *MongoChangeSource) pipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: bson.D{{Key: "$in", Value: s.ops}}},
		}}},
	}
}

func (s *MongoChangeSource) Watch(ctx context.Context, out chan<- domain.ChangeEvent) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := s.coll.Watch(ctx, s.pipeline(), opts)
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.coll.Name(), err)
	}
	defer stream.Close(context.Background())

	s.log.Info().Strs("operations", s.ops).Msg("change stream opened")

	for stream.Next(ctx) {
		var ev domain.ChangeEvent
		if err := stream.Decode(&ev); err != nil {
			s.log.Error().Err(err).Msg("decode change event")
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}

	if ctx.Err() != nil {
		s.log.Info().Msg("change stream closed")
		return nil
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("watch %s: %w", s.coll.Name(), err)
	}
	return nil
}
