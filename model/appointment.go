package model

import "time"

const (
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

type Salon struct {
	ID   string `firestore:"-"`
	Name string `firestore:"name"`
	Slug string `firestore:"slug"`
}

// Appointment lives in the "appointments" subcollection of its salon.
// Older documents recorded the owning email under "email" instead of
// "clientEmail"; both are read, only clientEmail is written.
type Appointment struct {
	ID          string    `firestore:"-"`
	ClientName  string    `firestore:"clientName"`
	ClientEmail string    `firestore:"clientEmail"`
	LegacyEmail string    `firestore:"email,omitempty"`
	Service     string    `firestore:"service"`
	Staff       string    `firestore:"staff"`
	Date        time.Time `firestore:"date"`
	Status      string    `firestore:"status"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

// OwnerEmail returns the identity that booked the appointment.
func (a *Appointment) OwnerEmail() string {
	if a.ClientEmail != "" {
		return a.ClientEmail
	}
	return a.LegacyEmail
}
