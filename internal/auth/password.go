package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for new password hashes. Cost 10
// matches roughly 2^10 rounds, which keeps login latency reasonable while
// staying expensive for offline brute force.
const DefaultBcryptCost = 10

// PasswordHasher hashes and verifies user passwords with bcrypt. The cost is
// fixed at construction; tests can pass bcrypt.MinCost to keep hashing fast.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given cost. A cost of 0 selects
// DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a bcrypt hash of the password. bcrypt generates a fresh random
// salt per call and embeds it in the output, so hashing the same password
// twice yields different strings.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > 72 {
		// bcrypt silently truncates input beyond 72 bytes; reject instead.
		return "", fmt.Errorf("password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. The comparison is
// bcrypt's own constant-time check.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
