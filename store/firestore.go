package store

import (
	"context"
	"time"

	"salonbook/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	otpCollection          = "email_otps"
	salonCollection        = "salons"
	appointmentsCollection = "appointments"
)

// FirestoreOTPStore keeps OTP records in the email_otps collection and
// relies on Firestore transactions for per-email linearization.
type FirestoreOTPStore struct {
	client *firestore.Client
}

var _ OTPStore = (*FirestoreOTPStore)(nil)

func NewFirestoreOTPStore(client *firestore.Client) *FirestoreOTPStore {
	return &FirestoreOTPStore{client: client}
}

func (s *FirestoreOTPStore) Update(ctx context.Context, key string, fn func(rec *model.OTPRecord, exists bool) (OTPMutation, error)) error {
	docRef := s.client.Collection(otpCollection).Doc(key)

	// The business outcome (rate limited, wrong code, ...) must not
	// abort the transaction: its writes are the point. Only
	// infrastructure errors are returned to RunTransaction.
	var outcome error
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		outcome = nil
		exists := true
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return err
			}
			exists = false
		}

		var rec model.OTPRecord
		if exists {
			rec = decodeOTPRecord(snap.Data())
		}

		mutation, fnErr := fn(&rec, exists)
		outcome = fnErr

		switch mutation {
		case MutationPut:
			return tx.Set(docRef, rec)
		case MutationDelete:
			if exists {
				return tx.Delete(docRef)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return outcome
}

func (s *FirestoreOTPStore) Get(ctx context.Context, key string) (model.OTPRecord, error) {
	snap, err := s.client.Collection(otpCollection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.OTPRecord{}, ErrNotFound
		}
		return model.OTPRecord{}, err
	}
	return decodeOTPRecord(snap.Data()), nil
}

func (s *FirestoreOTPStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	iter := s.client.Collection(otpCollection).Where("expiresAt", "<", now).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, err
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// decodeOTPRecord normalizes a raw document into the typed record.
// Documents written by earlier revisions carry numeric epochs in
// requestTimestamps where newer ones hold native timestamps; malformed
// fields decode to zero values and the services treat them as invalid
// rather than trusting ambient shape.
func decodeOTPRecord(data map[string]interface{}) model.OTPRecord {
	return model.OTPRecord{
		HashedEmail:       asString(data["hashedEmail"]),
		EmailHint:         asString(data["emailHint"]),
		OTPHash:           asString(data["otpHash"]),
		Salt:              asString(data["salt"]),
		CreatedAt:         asTime(data["createdAt"]),
		ExpiresAt:         asTime(data["expiresAt"]),
		Attempts:          asInt(data["attempts"]),
		RequestTimestamps: EpochMillisList(data["requestTimestamps"]),
		LastSentAt:        asTime(data["lastSentAt"]),
	}
}

// FirestoreAppointmentStore reads salons by slug and mutates their
// appointments subcollection.
type FirestoreAppointmentStore struct {
	client *firestore.Client
}

var _ AppointmentStore = (*FirestoreAppointmentStore)(nil)

func NewFirestoreAppointmentStore(client *firestore.Client) *FirestoreAppointmentStore {
	return &FirestoreAppointmentStore{client: client}
}

func (s *FirestoreAppointmentStore) SalonBySlug(ctx context.Context, slug string) (model.Salon, error) {
	iter := s.client.Collection(salonCollection).Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return model.Salon{}, ErrSalonNotFound
	}
	if err != nil {
		return model.Salon{}, err
	}

	var salon model.Salon
	if err := doc.DataTo(&salon); err != nil {
		return model.Salon{}, err
	}
	salon.ID = doc.Ref.ID
	return salon, nil
}

func (s *FirestoreAppointmentStore) appointmentRef(salonID, appointmentID string) *firestore.DocumentRef {
	return s.client.Collection(salonCollection).Doc(salonID).Collection(appointmentsCollection).Doc(appointmentID)
}

func (s *FirestoreAppointmentStore) Appointment(ctx context.Context, salonID, appointmentID string) (model.Appointment, error) {
	snap, err := s.appointmentRef(salonID, appointmentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Appointment{}, ErrNotFound
		}
		return model.Appointment{}, err
	}

	var appt model.Appointment
	if err := snap.DataTo(&appt); err != nil {
		return model.Appointment{}, err
	}
	appt.ID = snap.Ref.ID
	return appt, nil
}

func (s *FirestoreAppointmentStore) CreateAppointment(ctx context.Context, salonID string, appt model.Appointment) error {
	_, err := s.appointmentRef(salonID, appt.ID).Set(ctx, appt)
	return err
}

func (s *FirestoreAppointmentStore) CancelAppointment(ctx context.Context, salonID, appointmentID string) error {
	_, err := s.appointmentRef(salonID, appointmentID).Update(ctx, []firestore.Update{
		{Path: "status", Value: model.AppointmentCancelled},
	})
	return err
}

func (s *FirestoreAppointmentStore) RescheduleAppointment(ctx context.Context, salonID, appointmentID string, newDate time.Time) error {
	_, err := s.appointmentRef(salonID, appointmentID).Update(ctx, []firestore.Update{
		{Path: "date", Value: newDate},
		{Path: "status", Value: model.AppointmentConfirmed},
	})
	return err
}

func (s *FirestoreAppointmentStore) AppointmentsByEmail(ctx context.Context, salonID, email string) ([]model.Appointment, error) {
	iter := s.client.Collection(salonCollection).Doc(salonID).Collection(appointmentsCollection).
		Where("clientEmail", "==", email).
		OrderBy("date", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var appointments []model.Appointment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var appt model.Appointment
		if err := doc.DataTo(&appt); err != nil {
			return nil, err
		}
		appt.ID = doc.Ref.ID
		appointments = append(appointments, appt)
	}
	return appointments, nil
}
