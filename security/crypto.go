package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail canonicalizes an email for keying and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// HashEmail derives the storage key for an email. The digest is a
// stable correlation identifier, not a secret: the plaintext email
// never appears in document IDs.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}

// HashOTP computes the keyed salted digest stored for an OTP code.
// Changing either the server secret or the per-record salt invalidates
// every outstanding hash.
func HashOTP(secret []byte, code, salt string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(salt))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// ConstantTimeEquals compares two strings in time independent of where
// they first differ. Unequal lengths are padded so the comparison still
// runs over the full width, then forced to false; the length itself is
// not hidden.
func ConstantTimeEquals(a, b string) bool {
	bufA := []byte(a)
	bufB := []byte(b)
	if len(bufA) != len(bufB) {
		n := len(bufA)
		if len(bufB) > n {
			n = len(bufB)
		}
		paddedA := make([]byte, n)
		paddedB := make([]byte, n)
		copy(paddedA, bufA)
		copy(paddedB, bufB)
		// Run the full-width comparison anyway, then reject on length.
		_ = subtle.ConstantTimeCompare(paddedA, paddedB)
		return false
	}
	return subtle.ConstantTimeCompare(bufA, bufB) == 1
}

// GenerateOTP returns a fixed-length numeric code drawn uniformly from
// [0, 10^length), zero-padded.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// GenerateSalt returns 8 random bytes hex-encoded.
func GenerateSalt() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// MaskEmail produces the display-only hint stored alongside an OTP
// record, e.g. "a****e@e*****e.com".
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return email
	}

	maskedLocal := maskPart(local)

	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return maskedLocal + "@" + domain
	}

	maskedDomain := maskPart(parts[0])
	return maskedLocal + "@" + maskedDomain + "." + strings.Join(parts[1:], ".")
}

func maskPart(s string) string {
	if s == "" {
		return s
	}
	if len(s) <= 2 {
		return s[:1] + "*"
	}
	stars := len(s) - 2
	if stars < 1 {
		stars = 1
	}
	return s[:1] + strings.Repeat("*", stars) + s[len(s)-1:]
}
