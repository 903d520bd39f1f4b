package archive

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/chouse/pkg/errors"
	"github.com/matzehuels/chouse/pkg/record"
)

const (
	// DefaultDatabase is used when no database name is configured.
	DefaultDatabase = "chouse"

	// DefaultCollection holds archived company profiles.
	DefaultCollection = "companies"

	connectTimeout = 10 * time.Second
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore archives records in a MongoDB collection.
// It is safe for concurrent use.
type MongoStore struct {
	client *mongo.Client
	coll   collection
	now    func() time.Time
}

// collection is the part of *mongo.Collection the store uses.
type collection interface {
	ReplaceOne(ctx context.Context, filter, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
}

type document struct {
	ID         string    `bson:"_id"`
	ArchivedAt time.Time `bson:"archived_at"`
	Record     bson.D    `bson:"record"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo URI is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
		now:    time.Now,
	}, nil
}

// Save upserts rec under its company_number and returns that number.
// Empty records and records without a company number are rejected.
func (s *MongoStore) Save(ctx context.Context, rec *record.Map) (string, error) {
	id, err := CompanyNumber(rec)
	if err != nil {
		return "", err
	}
	doc, err := ToBSON(rec)
	if err != nil {
		return "", err
	}

	_, err = s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		document{ID: id, ArchivedAt: s.now().UTC(), Record: doc},
		options.Replace().SetUpsert(true))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "archive company %s", id)
	}
	return id, nil
}

// Get returns the archived record for companyNumber. A missing document is
// an empty record and no error.
func (s *MongoStore) Get(ctx context.Context, companyNumber string) (*record.Map, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: companyNumber}}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return record.Empty(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read company %s", companyNumber)
	}
	return FromBSON(doc.Record)
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// CompanyNumber returns the record's company_number field.
func CompanyNumber(rec *record.Map) (string, error) {
	if rec.IsEmpty() {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot archive an empty record")
	}
	v, _ := rec.Get("company_number")
	id, ok := v.AsString()
	if !ok || id == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "record has no company_number")
	}
	return id, nil
}
