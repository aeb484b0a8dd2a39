package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/io"
)

// MongoOptions configures a [MongoStore].
type MongoOptions struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string
	Collection string
}

// Defaults for MongoOptions fields left empty.
const (
	DefaultMongoDatabase   = "classdiagram"
	DefaultMongoCollection = "diagrams"
)

// collection is the subset of *mongo.Collection used by MongoStore.
type collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// MongoStore stores one BSON document per diagram, keyed by name in _id.
type MongoStore struct {
	client *mongo.Client
	coll   collection
	now    func() time.Time
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "ping mongodb")
	}

	s := newMongoStore(client.Database(opts.Database).Collection(opts.Collection))
	s.client = client
	return s, nil
}

func newMongoStore(coll collection) *MongoStore {
	return &MongoStore{coll: coll, now: time.Now}
}

func (s *MongoStore) Get(ctx context.Context, name string) (Document, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return Document{}, err
	}

	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, notFound(name)
	}
	if err != nil {
		return Document{}, storageError(err, "get", name)
	}
	return doc, nil
}

// Put upserts the definition. created_at is only written on insert.
func (s *MongoStore) Put(ctx context.Context, name string, def io.Definition) (Document, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return Document{}, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set":         bson.M{"definition": def, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": name}, update, options.Update().SetUpsert(true)); err != nil {
		return Document{}, storageError(err, "put", name)
	}
	return s.Get(ctx, name)
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return storageError(err, "delete", name)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Document, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageError(err, "list", "*")
	}
	defer cur.Close(ctx)

	docs := []Document{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageError(err, "list", "*")
	}
	return docs, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
