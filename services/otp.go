package services

import (
	"context"
	"errors"
	"log"
	"time"

	"salonbook/config"
	"salonbook/model"
	"salonbook/security"
	"salonbook/store"
)

var (
	ErrInvalidEmail = errors.New("invalid or missing email")
	// ErrRateLimited means no new code was generated and nothing was
	// sent; the caller may retry after the window elapses.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrDeliveryFailed means the record was committed but the email
	// transport failed, so the code is live yet the user never saw it.
	ErrDeliveryFailed  = errors.New("otp generated but email delivery failed")
	ErrNoActiveSession = errors.New("invalid or expired otp session")
	ErrExpired         = errors.New("otp expired")
	ErrTooManyAttempts = errors.New("maximum attempts reached")
	ErrInvalidOTP      = errors.New("invalid otp")
)

// OTPService implements issuance and verification of email OTP codes
// against an atomic record store. All cross-request coordination (rate
// limiting, attempt counting, single-use enforcement) happens inside
// the store's transaction; the service itself holds no mutable state.
type OTPService struct {
	store  store.OTPStore
	mailer Mailer
	cfg    *config.Config

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

func NewOTPService(st store.OTPStore, mailer Mailer, cfg *config.Config) *OTPService {
	return &OTPService{
		store:  st,
		mailer: mailer,
		cfg:    cfg,
		Now:    time.Now,
	}
}

// Issue generates a fresh code for email and dispatches it, subject to
// the sliding-window rate limit. Re-issuance before expiry overwrites
// the previous hash, so only the most recent code verifies.
func (s *OTPService) Issue(ctx context.Context, email string) error {
	email = security.NormalizeEmail(email)
	if !security.IsValidEmail(email) {
		return ErrInvalidEmail
	}

	key := security.HashEmail(email)
	var code string

	err := s.store.Update(ctx, key, func(rec *model.OTPRecord, exists bool) (store.OTPMutation, error) {
		now := s.Now()
		rec.PruneRequests(now.Add(-s.cfg.RateLimitWindow).UnixMilli())
		if len(rec.RequestTimestamps) >= s.cfg.RateLimitMax {
			return store.MutationNone, ErrRateLimited
		}

		var err error
		code, err = security.GenerateOTP(s.cfg.OTPLength)
		if err != nil {
			return store.MutationNone, err
		}
		salt, err := security.GenerateSalt()
		if err != nil {
			return store.MutationNone, err
		}

		rec.HashedEmail = key
		rec.EmailHint = security.MaskEmail(email)
		rec.OTPHash = security.HashOTP(s.cfg.OTPSecret, code, salt)
		rec.Salt = salt
		rec.CreatedAt = now
		rec.ExpiresAt = now.Add(s.cfg.OTPExpiry)
		rec.Attempts = 0
		rec.RequestTimestamps = append(rec.RequestTimestamps, now.UnixMilli())
		rec.LastSentAt = now
		return store.MutationPut, nil
	})
	if err != nil {
		return err
	}

	// Dispatch happens outside the transaction. The record is already
	// committed, so a transport failure leaves a valid code the user
	// never received; surface it distinctly instead of retrying, which
	// could double-send.
	if err := s.mailer.SendOTP(ctx, email, code, s.cfg.OTPExpiry); err != nil {
		log.Printf("OTP email dispatch to %s failed: %v", security.MaskEmail(email), err)
		return ErrDeliveryFailed
	}
	return nil
}

// Verify checks the submitted code against the stored record. A code
// succeeds at most once: the record is deleted on match, on expiry, and
// when the attempt budget is exhausted. A plain mismatch only
// increments the attempt count.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	email = security.NormalizeEmail(email)
	key := security.HashEmail(email)

	return s.store.Update(ctx, key, func(rec *model.OTPRecord, exists bool) (store.OTPMutation, error) {
		if !exists {
			return store.MutationNone, ErrNoActiveSession
		}

		now := s.Now()
		if rec.ExpiresAt.IsZero() || now.After(rec.ExpiresAt) {
			return store.MutationDelete, ErrExpired
		}
		if rec.Attempts >= s.cfg.OTPMaxAttempts {
			return store.MutationDelete, ErrTooManyAttempts
		}

		submitted := security.HashOTP(s.cfg.OTPSecret, code, rec.Salt)
		if !security.ConstantTimeEquals(submitted, rec.OTPHash) {
			rec.Attempts++
			if rec.Attempts >= s.cfg.OTPMaxAttempts {
				return store.MutationDelete, ErrTooManyAttempts
			}
			return store.MutationPut, ErrInvalidOTP
		}

		return store.MutationDelete, nil
	})
}
