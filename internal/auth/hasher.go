package auth

import "golang.org/x/crypto/bcrypt"

// dummyDigest is a valid bcrypt digest of an unguessable value. Login verifies
// against it when no account matches the email, so both failure paths cost one
// bcrypt comparison.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword applies a salted one-way bcrypt hash. The salt is embedded in
// the returned digest, so hashing the same plaintext twice yields different digests.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword recomputes the hash using the salt embedded in digest and
// compares in constant time. A malformed digest is reported as a mismatch,
// never as an error.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
