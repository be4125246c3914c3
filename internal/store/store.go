package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbay/medbay-api/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserUpdate is a partial profile update. Empty fields are left untouched.
// Email, password and the role flags are deliberately absent: they are not
// updatable through the profile path.
type UserUpdate struct {
	Name           string
	Phone          string
	Specialization string
}

// ReportUpdate is a partial report update. Zero-valued fields are skipped.
// The owning doctor is fixed at creation and cannot be reassigned.
type ReportUpdate struct {
	PatientName   string
	Age           int
	HospitalName  string
	Weight        string
	Height        string
	BloodGroup    string
	Genotype      string
	BloodPressure string
	HIVStatus     string
	Hepatitis     string
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) error
	// Endorse flips isDoctor to true. isAdmin is never touched after creation.
	Endorse(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ReportStore interface {
	Create(ctx context.Context, r *models.Report) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	FindByPatientName(ctx context.Context, name string) (*models.Report, error)
	FindAll(ctx context.Context) ([]models.Report, error)
	FindByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Report, error)
	Update(ctx context.Context, id primitive.ObjectID, upd ReportUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
