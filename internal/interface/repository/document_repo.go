package repository

import (
	"context"
	"time"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocumentRepository implements the DocumentRepository interface
type MongoDocumentRepository struct {
	collection *mongo.Collection
}

// NewMongoDocumentRepository creates a new MongoDB scan document repository
func NewMongoDocumentRepository(db *mongo.Database) repository.DocumentRepository {
	collection := db.Collection("scanDocuments")

	// Create indexes for better performance
	ctx := context.Background()

	documentIDIndex := mongo.IndexModel{
		Keys:    bson.M{"documentId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Index on batchId for per-batch listing and consolidation
	batchIndex := mongo.IndexModel{
		Keys: bson.M{"batchId": 1},
	}

	// Index on receivedAt for sorting and filtering
	receivedAtIndex := mongo.IndexModel{
		Keys: bson.M{"receivedAt": -1},
	}

	// Compound index for finding unprocessed documents efficiently
	unprocessedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "processStatus", Value: 1},
			{Key: "receivedAt", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		documentIDIndex,
		batchIndex,
		receivedAtIndex,
		unprocessedIndex,
	})

	return &MongoDocumentRepository{
		collection: collection,
	}
}

// Save saves a scan document to MongoDB
func (r *MongoDocumentRepository) Save(ctx context.Context, doc *entity.ScanDocument) error {
	if doc.ProcessStatus == "" {
		doc.ProcessStatus = entity.StatusPending
	}
	if doc.ReceivedAt.IsZero() {
		doc.ReceivedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// FindByDocumentID finds a scan document by its document ID
func (r *MongoDocumentRepository) FindByDocumentID(ctx context.Context, documentID string) (*entity.ScanDocument, error) {
	var doc entity.ScanDocument
	err := r.collection.FindOne(ctx, bson.M{"documentId": documentID}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByDocumentIDs batch-loads documents keyed by document ID
func (r *MongoDocumentRepository) FindByDocumentIDs(ctx context.Context, documentIDs []string) (map[string]*entity.ScanDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"documentId": bson.M{"$in": documentIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make(map[string]*entity.ScanDocument)
	for cursor.Next(ctx) {
		var doc entity.ScanDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result[doc.DocumentID] = &doc
	}
	return result, cursor.Err()
}

// FindByBatch finds all documents of a batch, oldest first
func (r *MongoDocumentRepository) FindByBatch(ctx context.Context, batchID string) ([]*entity.ScanDocument, error) {
	return r.find(ctx, bson.M{"batchId": batchID})
}

// FindCompletedByBatch finds a batch's successfully extracted documents,
// oldest first, so consolidation sees them in upload order
func (r *MongoDocumentRepository) FindCompletedByBatch(ctx context.Context, batchID string) ([]*entity.ScanDocument, error) {
	return r.find(ctx, bson.M{
		"batchId":       batchID,
		"processStatus": entity.StatusCompleted,
	})
}

// FindUnprocessed finds unprocessed documents (PENDING status or empty)
func (r *MongoDocumentRepository) FindUnprocessed(ctx context.Context, limit int) ([]*entity.ScanDocument, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"processStatus": ""},
			{"processStatus": entity.StatusPending},
			{"processStatus": bson.M{"$exists": false}},
		},
	}

	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "receivedAt", Value: 1}}, // Process oldest first
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*entity.ScanDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetLastDocument returns the most recently received document
func (r *MongoDocumentRepository) GetLastDocument(ctx context.Context) (*entity.ScanDocument, error) {
	var doc entity.ScanDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "receivedAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateStatusByDocumentID updates just the status and started time
func (r *MongoDocumentRepository) UpdateStatusByDocumentID(ctx context.Context, documentID string, status string, startedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"processStatus":    status,
			"processStartedAt": startedAt,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"documentId": documentID}, update)
	return err
}

// MarkAsProcessedByDocumentID records the final outcome of one document
func (r *MongoDocumentRepository) MarkAsProcessedByDocumentID(ctx context.Context, documentID, status, errorDetail string, extraction *entity.ExtractedRecord, fromCache bool) error {
	set := bson.M{
		"processStatus": status,
		"processedAt":   time.Now(),
		"errorDetail":   errorDetail,
		"fromCache":     fromCache,
	}
	if extraction != nil {
		set["extraction"] = extraction
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"documentId": documentID}, bson.M{"$set": set})
	return err
}

// ResetProcessingDocuments returns documents stuck in PROCESSING to PENDING.
// A crash mid-extraction would otherwise strand them forever.
func (r *MongoDocumentRepository) ResetProcessingDocuments(ctx context.Context) error {
	staleBefore := time.Now().Add(-10 * time.Minute)
	filter := bson.M{
		"processStatus":    entity.StatusProcessing,
		"processStartedAt": bson.M{"$lt": staleBefore},
	}
	update := bson.M{
		"$set": bson.M{"processStatus": entity.StatusPending},
	}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

func (r *MongoDocumentRepository) find(ctx context.Context, filter bson.M) ([]*entity.ScanDocument, error) {
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Sort: bson.D{{Key: "receivedAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*entity.ScanDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
