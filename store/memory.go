package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"salonbook/model"
)

// MemoryOTPStore is an in-process OTPStore used by tests and local
// development. A single mutex stands in for the store's transaction
// serialization.
type MemoryOTPStore struct {
	mu      sync.Mutex
	records map[string]model.OTPRecord
}

var _ OTPStore = (*MemoryOTPStore)(nil)

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{records: make(map[string]model.OTPRecord)}
}

func (s *MemoryOTPStore) Update(ctx context.Context, key string, fn func(rec *model.OTPRecord, exists bool) (OTPMutation, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.records[key]
	rec := cloneRecord(stored)

	mutation, err := fn(&rec, exists)
	switch mutation {
	case MutationPut:
		s.records[key] = cloneRecord(rec)
	case MutationDelete:
		delete(s.records, key)
	}
	return err
}

func (s *MemoryOTPStore) Get(ctx context.Context, key string) (model.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return model.OTPRecord{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (s *MemoryOTPStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, rec := range s.records {
		if rec.ExpiresAt.Before(now) {
			delete(s.records, key)
			deleted++
		}
	}
	return deleted, nil
}

func cloneRecord(rec model.OTPRecord) model.OTPRecord {
	out := rec
	out.RequestTimestamps = append([]int64(nil), rec.RequestTimestamps...)
	return out
}

// MemoryAppointmentStore holds salons and their appointments in maps.
type MemoryAppointmentStore struct {
	mu           sync.Mutex
	salons       map[string]model.Salon
	appointments map[string]map[string]model.Appointment // salonID -> appointmentID
}

var _ AppointmentStore = (*MemoryAppointmentStore)(nil)

func NewMemoryAppointmentStore() *MemoryAppointmentStore {
	return &MemoryAppointmentStore{
		salons:       make(map[string]model.Salon),
		appointments: make(map[string]map[string]model.Appointment),
	}
}

// PutSalon seeds a salon document.
func (s *MemoryAppointmentStore) PutSalon(salon model.Salon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salons[salon.ID] = salon
	if s.appointments[salon.ID] == nil {
		s.appointments[salon.ID] = make(map[string]model.Appointment)
	}
}

func (s *MemoryAppointmentStore) SalonBySlug(ctx context.Context, slug string) (model.Salon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, salon := range s.salons {
		if salon.Slug == slug {
			return salon, nil
		}
	}
	return model.Salon{}, ErrSalonNotFound
}

func (s *MemoryAppointmentStore) Appointment(ctx context.Context, salonID, appointmentID string) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[salonID][appointmentID]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	return appt, nil
}

func (s *MemoryAppointmentStore) CreateAppointment(ctx context.Context, salonID string, appt model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appointments[salonID] == nil {
		s.appointments[salonID] = make(map[string]model.Appointment)
	}
	s.appointments[salonID][appt.ID] = appt
	return nil
}

func (s *MemoryAppointmentStore) CancelAppointment(ctx context.Context, salonID, appointmentID string) error {
	return s.updateAppointment(salonID, appointmentID, func(appt *model.Appointment) {
		appt.Status = model.AppointmentCancelled
	})
}

func (s *MemoryAppointmentStore) RescheduleAppointment(ctx context.Context, salonID, appointmentID string, newDate time.Time) error {
	return s.updateAppointment(salonID, appointmentID, func(appt *model.Appointment) {
		appt.Date = newDate
		appt.Status = model.AppointmentConfirmed
	})
}

func (s *MemoryAppointmentStore) updateAppointment(salonID, appointmentID string, change func(*model.Appointment)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[salonID][appointmentID]
	if !ok {
		return ErrNotFound
	}
	change(&appt)
	s.appointments[salonID][appointmentID] = appt
	return nil
}

func (s *MemoryAppointmentStore) AppointmentsByEmail(ctx context.Context, salonID, email string) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Appointment
	for _, appt := range s.appointments[salonID] {
		if appt.ClientEmail == email {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
