package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// collectionName is the MongoDB collection holding archived formulas.
const collectionName = "formulas"

// MongoArchive is a MongoDB-backed archive for durable storage.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// formulaDoc is the MongoDB document shape. The digest doubles as the
// document id so that upserts are natural.
type formulaDoc struct {
	Digest    string    `bson:"_id"`
	Source    string    `bson:"source"`
	Markup    string    `bson:"markup"`
	CreatedAt time.Time `bson:"created_at"`
}

// NewMongoArchive connects to MongoDB and prepares the formulas collection.
// The connection is verified with a ping before returning.
func NewMongoArchive(ctx context.Context, uri, database string) (*MongoArchive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	coll := client.Database(database).Collection(collectionName)

	// Index for the newest-first listing
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("creating index: %w", err)
	}

	return &MongoArchive{client: client, coll: coll}, nil
}

// Save stores a formula, replacing any existing entry with the same digest.
func (a *MongoArchive) Save(ctx context.Context, f Formula) error {
	if f.Digest == "" {
		return fmt.Errorf("formula digest cannot be empty")
	}

	doc := formulaDoc{
		Digest:    f.Digest,
		Source:    f.Source,
		Markup:    f.Markup,
		CreatedAt: f.CreatedAt,
	}

	_, err := a.coll.ReplaceOne(ctx,
		bson.M{"_id": f.Digest},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving formula %s: %w", f.Digest, err)
	}
	return nil
}

// Get retrieves a formula by digest.
func (a *MongoArchive) Get(ctx context.Context, digest string) (Formula, error) {
	var doc formulaDoc
	err := a.coll.FindOne(ctx, bson.M{"_id": digest}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Formula{}, fmt.Errorf("%w: %s", ErrNotFound, digest)
	}
	if err != nil {
		return Formula{}, fmt.Errorf("fetching formula %s: %w", digest, err)
	}

	return Formula{
		Digest:    doc.Digest,
		Source:    doc.Source,
		Markup:    doc.Markup,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// List returns the most recently archived formulas, newest first.
func (a *MongoArchive) List(ctx context.Context, limit int) ([]Formula, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := a.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing formulas: %w", err)
	}

	var docs []formulaDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading formulas: %w", err)
	}

	out := make([]Formula, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Formula{
			Digest:    doc.Digest,
			Source:    doc.Source,
			Markup:    doc.Markup,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

// Ensure MongoArchive implements Archive.
var _ Archive = (*MongoArchive)(nil)
