package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// MongoResidencyStore implements ResidencyStore on a MongoDB residencies
// collection.
type MongoResidencyStore struct {
	coll      *mongo.Collection
	opTimeout time.Duration
}

func NewMongoResidencyStore(database *mongo.Database, opTimeout time.Duration) *MongoResidencyStore {
	return &MongoResidencyStore{
		coll:      database.Collection(ResidenciesCollection),
		opTimeout: opTimeout,
	}
}

func (s *MongoResidencyStore) Insert(ctx context.Context, residency *models.Residency) error {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, residency)
	return mapMongoError(err, "insert residency")
}

func (s *MongoResidencyStore) FindByID(ctx context.Context, id utils.SixID) (*models.Residency, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	var residency models.Residency
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&residency)
	if err != nil {
		return nil, mapMongoError(err, "find residency by id")
	}
	return &residency, nil
}

func (s *MongoResidencyStore) FindByIDs(ctx context.Context, ids []utils.SixID) ([]models.Residency, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, "find residencies by ids")
}

func (s *MongoResidencyStore) FindAll(ctx context.Context) ([]models.Residency, error) {
	return s.findMany(ctx, bson.M{}, "find all residencies")
}

func (s *MongoResidencyStore) AllIDs(ctx context.Context) (map[utils.SixID]struct{}, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, mapMongoError(err, "list residency ids")
	}
	var docs []struct {
		ID utils.SixID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err, "list residency ids")
	}
	ids := make(map[utils.SixID]struct{}, len(docs))
	for _, doc := range docs {
		ids[doc.ID] = struct{}{}
	}
	return ids, nil
}

func (s *MongoResidencyStore) Update(ctx context.Context, id, ownerID utils.SixID, updates map[string]interface{}) (*models.Residency, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now()}
	for field, value := range updates {
		set[field] = value
	}

	var residency models.Residency
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner_id": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&residency)
	if err != nil {
		return nil, mapMongoError(err, "update residency")
	}
	return &residency, nil
}

func (s *MongoResidencyStore) AddImage(ctx context.Context, id utils.SixID, imageKey string) error {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$addToSet": bson.M{"images": imageKey},
			"$set":      bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return mapMongoError(err, "add residency image")
	}
	if res.MatchedCount == 0 {
		return mapMongoError(mongo.ErrNoDocuments, "add residency image")
	}
	return nil
}

func (s *MongoResidencyStore) Delete(ctx context.Context, id utils.SixID) (bool, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, mapMongoError(err, "delete residency")
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoResidencyStore) findMany(ctx context.Context, filter bson.M, op string) ([]models.Residency, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, mapMongoError(err, op)
	}
	var residencies []models.Residency
	if err := cursor.All(ctx, &residencies); err != nil {
		return nil, mapMongoError(err, op)
	}
	return residencies, nil
}
