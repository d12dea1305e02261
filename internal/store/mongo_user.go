package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// MongoUserStore implements UserStore on a MongoDB users collection.
type MongoUserStore struct {
	coll      *mongo.Collection
	opTimeout time.Duration
}

func NewMongoUserStore(database *mongo.Database, opTimeout time.Duration) *MongoUserStore {
	return &MongoUserStore{
		coll:      database.Collection(UsersCollection),
		opTimeout: opTimeout,
	}
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) error {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, user)
	return mapMongoError(err, "insert user")
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, mapMongoError(err, "find user by email")
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id utils.SixID) (*models.User, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, mapMongoError(err, "find user by id")
	}
	return &user, nil
}

func (s *MongoUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	return s.findMany(ctx, bson.M{}, "find all users")
}

func (s *MongoUserStore) AddFavorite(ctx context.Context, email string, residencyID utils.SixID) error {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$addToSet": bson.M{"favorite_residency_ids": residencyID},
			"$set":      bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return mapMongoError(err, "add favorite")
	}
	if res.MatchedCount == 0 {
		return mapMongoError(mongo.ErrNoDocuments, "add favorite")
	}
	return nil
}

func (s *MongoUserStore) RemoveFavorite(ctx context.Context, email string, residencyID utils.SixID) error {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$pull": bson.M{"favorite_residency_ids": residencyID},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return mapMongoError(err, "remove favorite")
	}
	if res.MatchedCount == 0 {
		return mapMongoError(mongo.ErrNoDocuments, "remove favorite")
	}
	return nil
}

func (s *MongoUserStore) AddBooking(ctx context.Context, email string, visit models.BookedVisit) (bool, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	// The absence of an existing booking is part of the write filter, so two
	// racing requests for the same residency cannot both append.
	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"email":                      email,
			"booked_visits.residency_id": bson.M{"$ne": visit.ResidencyID},
		},
		bson.M{
			"$push": bson.M{"booked_visits": visit},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return false, mapMongoError(err, "add booking")
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// No match means either the user does not exist or the booking already
	// does; a cheap existence probe tells the two apart.
	probeErr := s.coll.FindOne(ctx, bson.M{"email": email}).Err()
	if errors.Is(probeErr, mongo.ErrNoDocuments) {
		return false, mapMongoError(mongo.ErrNoDocuments, "add booking")
	}
	if probeErr != nil {
		return false, mapMongoError(probeErr, "add booking")
	}
	return false, nil
}

func (s *MongoUserStore) RemoveBooking(ctx context.Context, email string, residencyID utils.SixID) (bool, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$pull": bson.M{"booked_visits": bson.M{"residency_id": residencyID}},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return false, mapMongoError(err, "remove booking")
	}
	if res.MatchedCount == 0 {
		return false, mapMongoError(mongo.ErrNoDocuments, "remove booking")
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoUserStore) FindWithBookings(ctx context.Context) ([]models.User, error) {
	return s.findMany(ctx, bson.M{"booked_visits.0": bson.M{"$exists": true}}, "find users with bookings")
}

func (s *MongoUserStore) RemoveFavoriteFromAll(ctx context.Context, residencyID utils.SixID) (int64, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	res, err := s.coll.UpdateMany(ctx,
		bson.M{"favorite_residency_ids": residencyID},
		bson.M{
			"$pull": bson.M{"favorite_residency_ids": residencyID},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return 0, mapMongoError(err, "remove favorite from all")
	}
	return res.ModifiedCount, nil
}

func (s *MongoUserStore) RemoveBookingFromAll(ctx context.Context, residencyID utils.SixID) (int64, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	res, err := s.coll.UpdateMany(ctx,
		bson.M{"booked_visits.residency_id": residencyID},
		bson.M{
			"$pull": bson.M{"booked_visits": bson.M{"residency_id": residencyID}},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return 0, mapMongoError(err, "remove booking from all")
	}
	return res.ModifiedCount, nil
}

func (s *MongoUserStore) findMany(ctx context.Context, filter bson.M, op string) ([]models.User, error) {
	ctx, cancel := opContext(ctx, s.opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, mapMongoError(err, op)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, mapMongoError(err, op)
	}
	return users, nil
}
