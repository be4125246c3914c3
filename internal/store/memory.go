package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbay/medbay-api/internal/models"
)

// In-memory implementations of the store interfaces, used by handler and
// middleware tests so they can run without a database.

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (s *MemoryUserStore) Update(_ context.Context, id primitive.ObjectID, upd UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	if upd.Specialization != "" {
		u.Specialization = upd.Specialization
	}
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) Endorse(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsDoctor = true
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[primitive.ObjectID]models.Report
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[primitive.ObjectID]models.Report)}
}

func (s *MemoryReportStore) Create(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.reports[r.ID] = *r
	return nil
}

func (s *MemoryReportStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := r
	return &out, nil
}

func (s *MemoryReportStore) FindByPatientName(_ context.Context, name string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reports {
		if r.PatientName == name {
			out := r
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryReportStore) FindAll(_ context.Context) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryReportStore) FindByDoctor(_ context.Context, doctorID primitive.ObjectID) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Report
	for _, r := range s.reports {
		if r.DoctorID == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryReportStore) Update(_ context.Context, id primitive.ObjectID, upd ReportUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return ErrNotFound
	}
	if upd.PatientName != "" {
		r.PatientName = upd.PatientName
	}
	if upd.Age != 0 {
		r.Age = upd.Age
	}
	if upd.HospitalName != "" {
		r.HospitalName = upd.HospitalName
	}
	if upd.Weight != "" {
		r.Weight = upd.Weight
	}
	if upd.Height != "" {
		r.Height = upd.Height
	}
	if upd.BloodGroup != "" {
		r.BloodGroup = upd.BloodGroup
	}
	if upd.Genotype != "" {
		r.Genotype = upd.Genotype
	}
	if upd.BloodPressure != "" {
		r.BloodPressure = upd.BloodPressure
	}
	if upd.HIVStatus != "" {
		r.HIVStatus = upd.HIVStatus
	}
	if upd.Hepatitis != "" {
		r.Hepatitis = upd.Hepatitis
	}
	s.reports[id] = r
	return nil
}

func (s *MemoryReportStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return ErrNotFound
	}
	delete(s.reports, id)
	return nil
}
