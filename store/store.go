package store

import (
	"context"
	"errors"
	"time"

	"salonbook/model"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrSalonNotFound = errors.New("salon not found")
)

// OTPMutation is what an Update callback wants done with the record
// once it returns.
type OTPMutation int

const (
	MutationNone OTPMutation = iota
	MutationPut
	MutationDelete
)

// OTPStore is the atomic record-store boundary for OTP documents. Keys
// are the SHA-256 digest of the normalized email, so concurrent
// operations on the same email contend on a single document.
type OTPStore interface {
	// Update runs fn inside a serializable read-modify-write on the
	// record at key. exists reports whether the record was present; rec
	// is zero-valued otherwise. The returned mutation is applied and
	// committed even when fn also returns an error: a business outcome
	// such as "wrong code, attempts incremented" both persists its
	// write and surfaces its error. Concurrent Updates for the same key
	// are linearized by the store.
	Update(ctx context.Context, key string, fn func(rec *model.OTPRecord, exists bool) (OTPMutation, error)) error

	// Get reads the record at key, or ErrNotFound.
	Get(ctx context.Context, key string) (model.OTPRecord, error)

	// DeleteExpired removes every record whose expiry is before now and
	// returns how many were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// AppointmentStore reads and mutates the downstream appointment
// documents the ownership guard protects.
type AppointmentStore interface {
	SalonBySlug(ctx context.Context, slug string) (model.Salon, error)
	Appointment(ctx context.Context, salonID, appointmentID string) (model.Appointment, error)
	CreateAppointment(ctx context.Context, salonID string, appt model.Appointment) error
	// CancelAppointment marks the appointment cancelled.
	CancelAppointment(ctx context.Context, salonID, appointmentID string) error
	// RescheduleAppointment moves the appointment and re-confirms it if
	// it had been cancelled.
	RescheduleAppointment(ctx context.Context, salonID, appointmentID string, newDate time.Time) error
	// AppointmentsByEmail lists a client's appointments in one salon,
	// newest first.
	AppointmentsByEmail(ctx context.Context, salonID, email string) ([]model.Appointment, error)
}
