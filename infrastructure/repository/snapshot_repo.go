package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reqbridge/domain/cookie"
	"reqbridge/domain/snapshot"
)

// snapshotDocument is the MongoDB document structure for session snapshots.
type snapshotDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	UserAgent string             `bson:"user_agent"`
	LastURL   string             `bson:"last_url"`
	Cookies   []cookieDocument   `bson:"cookies,omitempty"`
	SavedAt   time.Time          `bson:"saved_at"`
}

// cookieDocument is the MongoDB document structure for cookies.
type cookieDocument struct {
	Name    string    `bson:"name"`
	Value   string    `bson:"value"`
	Domain  string    `bson:"domain"`
	Path    string    `bson:"path"`
	Expires time.Time `bson:"expires,omitempty"`
}

// MongoSnapshotRepository implements snapshot.Repository using MongoDB.
type MongoSnapshotRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoSnapshotRepository creates a new MongoDB-based snapshot repository.
func NewMongoSnapshotRepository(db *MongoDB, logger *slog.Logger) *MongoSnapshotRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoSnapshotRepository{
		collection: db.Collection("snapshot"),
		logger:     logger,
	}
}

// FindByName retrieves a snapshot by its name.
func (r *MongoSnapshotRepository) FindByName(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	filter := bson.M{"name": name}
	var doc snapshotDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find snapshot: %w", err)
	}

	return documentToSnapshot(&doc), nil
}

// FindAll retrieves all stored snapshots.
func (r *MongoSnapshotRepository) FindAll(ctx context.Context) ([]*snapshot.Snapshot, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []snapshotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode snapshots: %w", err)
	}

	snapshots := make([]*snapshot.Snapshot, len(docs))
	for i, doc := range docs {
		snapshots[i] = documentToSnapshot(&doc)
	}

	return snapshots, nil
}

// Save inserts the snapshot or replaces the existing one with the same name.
func (r *MongoSnapshotRepository) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	doc := snapshotToDocument(snap)

	filter := bson.M{"name": snap.Name}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		snap.ID = oid.Hex()
	}

	r.logger.Info("Snapshot saved", "name", snap.Name, "cookies", len(snap.Cookies))
	return nil
}

// Delete removes the snapshot with the given name. Deleting a missing
// snapshot is not an error.
func (r *MongoSnapshotRepository) Delete(ctx context.Context, name string) error {
	filter := bson.M{"name": name}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	r.logger.Info("Snapshot deleted", "name", name)
	return nil
}

// documentToSnapshot converts a MongoDB document to a domain Snapshot.
func documentToSnapshot(doc *snapshotDocument) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		UserAgent: doc.UserAgent,
		LastURL:   doc.LastURL,
		SavedAt:   doc.SavedAt,
	}

	if len(doc.Cookies) > 0 {
		snap.Cookies = make([]cookie.Cookie, len(doc.Cookies))
		for i, c := range doc.Cookies {
			snap.Cookies[i] = cookie.Cookie{
				Name:    c.Name,
				Value:   c.Value,
				Domain:  c.Domain,
				Path:    c.Path,
				Expires: c.Expires,
			}
		}
	}

	return snap
}

// snapshotToDocument converts a domain Snapshot to a MongoDB document.
func snapshotToDocument(snap *snapshot.Snapshot) *snapshotDocument {
	doc := &snapshotDocument{
		Name:      snap.Name,
		UserAgent: snap.UserAgent,
		LastURL:   snap.LastURL,
		SavedAt:   snap.SavedAt,
	}

	if snap.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(snap.ID); err == nil {
			doc.ID = oid
		}
	}

	if len(snap.Cookies) > 0 {
		doc.Cookies = make([]cookieDocument, len(snap.Cookies))
		for i, c := range snap.Cookies {
			doc.Cookies[i] = cookieDocument{
				Name:    c.Name,
				Value:   c.Value,
				Domain:  c.Domain,
				Path:    c.Path,
				Expires: c.Expires,
			}
		}
	}

	return doc
}

// Ensure MongoSnapshotRepository implements snapshot.Repository
var _ snapshot.Repository = (*MongoSnapshotRepository)(nil)
