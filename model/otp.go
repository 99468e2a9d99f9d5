package model

import "time"

// OTPRecord is the single live OTP document for one normalized email,
// stored in the "email_otps" collection under the email's SHA-256 key.
// The raw code is never persisted, only its salted keyed digest.
type OTPRecord struct {
	HashedEmail       string    `firestore:"hashedEmail"`
	EmailHint         string    `firestore:"emailHint"`
	OTPHash           string    `firestore:"otpHash"`
	Salt              string    `firestore:"salt"`
	CreatedAt         time.Time `firestore:"createdAt"`
	ExpiresAt         time.Time `firestore:"expiresAt"`
	Attempts          int       `firestore:"attempts"`
	RequestTimestamps []int64   `firestore:"requestTimestamps"`
	LastSentAt        time.Time `firestore:"lastSentAt"`
}

// PruneRequests drops issuance timestamps at or before cutoff
// (epoch milliseconds). Entries outside the rate-limit window never
// count toward the limit.
func (r *OTPRecord) PruneRequests(cutoff int64) {
	kept := r.RequestTimestamps[:0]
	for _, ts := range r.RequestTimestamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	r.RequestTimestamps = kept
}
