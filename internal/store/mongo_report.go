package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medbay/medbay-api/internal/models"
)

// MongoReportStore persists clinical reports in the "reports" collection.
type MongoReportStore struct {
	col *mongo.Collection
}

func NewMongoReportStore(db *mongo.Database) *MongoReportStore {
	return &MongoReportStore{col: db.Collection("reports")}
}

func (s *MongoReportStore) Create(ctx context.Context, r *models.Report) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, r)
	return err
}

func (s *MongoReportStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var r models.Report
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MongoReportStore) FindByPatientName(ctx context.Context, name string) (*models.Report, error) {
	var r models.Report
	err := s.col.FindOne(ctx, bson.M{"patientName": name}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MongoReportStore) FindAll(ctx context.Context) ([]models.Report, error) {
	return s.findMany(ctx, bson.M{})
}

func (s *MongoReportStore) FindByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Report, error) {
	return s.findMany(ctx, bson.M{"doctorId": doctorID})
}

func (s *MongoReportStore) findMany(ctx context.Context, filter bson.M) ([]models.Report, error) {
	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reports []models.Report
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *MongoReportStore) Update(ctx context.Context, id primitive.ObjectID, upd ReportUpdate) error {
	set := bson.M{}
	if upd.PatientName != "" {
		set["patientName"] = upd.PatientName
	}
	if upd.Age != 0 {
		set["age"] = upd.Age
	}
	if upd.HospitalName != "" {
		set["hospitalName"] = upd.HospitalName
	}
	if upd.Weight != "" {
		set["weight"] = upd.Weight
	}
	if upd.Height != "" {
		set["height"] = upd.Height
	}
	if upd.BloodGroup != "" {
		set["bloodGroup"] = upd.BloodGroup
	}
	if upd.Genotype != "" {
		set["genotype"] = upd.Genotype
	}
	if upd.BloodPressure != "" {
		set["bloodPressure"] = upd.BloodPressure
	}
	if upd.HIVStatus != "" {
		set["hivStatus"] = upd.HIVStatus
	}
	if upd.Hepatitis != "" {
		set["hepatitis"] = upd.Hepatitis
	}
	if len(set) == 0 {
		return nil
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoReportStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
