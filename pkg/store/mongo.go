package store

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/scene"
)

// MongoStore persists scenes in a MongoDB collection, keyed by scene ID in
// the _id field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig holds connection settings for the Mongo backend.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "gridlock"
	}
	if cfg.Collection == "" {
		cfg.Collection = "scenes"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a scene by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*scene.Scene, error) {
	var sc scene.Scene
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeSceneNotFound, "scene %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find scene")
	}
	return &sc, nil
}

// Put upserts a scene, assigning a fresh UUID when it carries none.
func (s *MongoStore) Put(ctx context.Context, sc *scene.Scene) (string, error) {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": sc.ID},
		sc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "store scene")
	}
	return sc.ID, nil
}

// List returns scene IDs ordered by creation time, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"_id": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list scenes")
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode scene id")
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "iterate scenes")
	}
	return ids, nil
}

// Delete removes a scene.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete scene")
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
