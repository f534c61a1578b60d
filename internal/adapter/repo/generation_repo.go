package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sathwik-loomiz/ai-generation/internal/domain"
)

const generationsCollection = "generations"

// GenerationRepositoryMongo implements domain.GenerationRepository on MongoDB.
type GenerationRepositoryMongo struct {
	coll *mongo.Collection
}

// NewGenerationRepository creates a generation repository backed by MongoDB.
func NewGenerationRepository(db *mongo.Database) *GenerationRepositoryMongo {
	return &GenerationRepositoryMongo{coll: db.Collection(generationsCollection)}
}

// Create inserts a new generation record and assigns its id and timestamps.
func (r *GenerationRepositoryMongo) Create(ctx context.Context, g *domain.Generation) error {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.ReferenceImages == nil {
		g.ReferenceImages = []domain.ReferenceImage{}
	}
	if g.GeneratedImages == nil {
		g.GeneratedImages = []domain.GeneratedImage{}
	}
	if g.Regenerations == nil {
		g.Regenerations = []domain.RegenerationAttempt{}
	}

	res, err := r.coll.InsertOne(ctx, g)
	if err != nil {
		return fmt.Errorf("%w: insert generation: %v", domain.ErrPersistence, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("%w: unexpected inserted id type %T", domain.ErrPersistence, res.InsertedID)
	}
	g.ID = oid
	return nil
}

// GetByID fetches a generation by its hex id.
func (r *GenerationRepositoryMongo) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var g domain.Generation
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: find generation: %v", domain.ErrPersistence, err)
	}
	return &g, nil
}

// SetReferenceImages stores the uploaded reference images on the record.
func (r *GenerationRepositoryMongo) SetReferenceImages(ctx context.Context, id string, refs []domain.ReferenceImage) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if refs == nil {
		refs = []domain.ReferenceImage{}
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{
		"referenceImages": refs,
		"updatedAt":       time.Now().UTC(),
	}})
}

// Finalize writes the generated images, terminal status and elapsed time in a
// single update.
func (r *GenerationRepositoryMongo) Finalize(ctx context.Context, id string, images []domain.GeneratedImage, status domain.GenerationStatus, processingMs int64) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if images == nil {
		images = []domain.GeneratedImage{}
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{
		"generatedImages":  images,
		"status":           status,
		"processingTimeMs": processingMs,
		"updatedAt":        time.Now().UTC(),
	}})
}

// UpdateStatus writes a status transition, optionally with an error message
// and elapsed time. Moving anywhere but failed clears a stale error from a
// previous attempt.
func (r *GenerationRepositoryMongo) UpdateStatus(ctx context.Context, id string, status domain.GenerationStatus, errMsg *string, processingMs *int64) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}
	if errMsg != nil {
		set["error"] = *errMsg
	}
	if processingMs != nil {
		set["processingTimeMs"] = *processingMs
	}
	update := bson.M{"$set": set}
	if status != domain.GenerationStatusFailed && errMsg == nil {
		update["$unset"] = bson.M{"error": ""}
	}
	return r.updateOne(ctx, oid, update)
}

// AppendRegeneration appends one lineage entry with an atomic $push, so
// concurrent appends against the same record never lose entries.
func (r *GenerationRepositoryMongo) AppendRegeneration(ctx context.Context, id string, attempt domain.RegenerationAttempt) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if attempt.ReferenceImages == nil {
		attempt.ReferenceImages = []domain.ReferenceImage{}
	}
	if attempt.GeneratedImages == nil {
		attempt.GeneratedImages = []domain.GeneratedImage{}
	}
	return r.updateOne(ctx, oid, bson.M{
		"$push": bson.M{"regenerations": attempt},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *GenerationRepositoryMongo) updateOne(ctx context.Context, oid primitive.ObjectID, update bson.M) error {
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("%w: update generation: %v", domain.ErrPersistence, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		// An id that cannot be an ObjectID cannot match any record.
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}
