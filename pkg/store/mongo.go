package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/shapio"
)

// MongoStore persists records in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a store backed by the
// given database and collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to reach mongodb at %s", uri)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Put stores a document and returns its assigned identifier.
func (s *MongoStore) Put(ctx context.Context, name string, doc *shapio.Document) (string, error) {
	if doc == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "document must not be nil")
	}
	rec := &Record{
		ID:        newID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Document:  doc,
	}
	if _, err := s.collection.InsertOne(ctx, rec); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to insert record %s", rec.ID)
	}
	return rec.ID, nil
}

// Get retrieves a stored record by identifier.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errors.ValidateExplanationID(id); err != nil {
		return nil, err
	}
	var rec Record
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to fetch record %s", id)
	}
	return &rec, nil
}

// Delete removes a stored record by identifier.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateExplanationID(id); err != nil {
		return err
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to delete record %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// List returns metadata for all stored records, newest first.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to list records")
	}
	defer cursor.Close(ctx)

	var infos []Info
	for cursor.Next(ctx) {
		var rec Record
		if err := cursor.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to decode record")
		}
		infos = append(infos, info(&rec))
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to iterate records")
	}
	return infos, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
