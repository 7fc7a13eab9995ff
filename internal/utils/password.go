package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an account password with bcrypt.  The cost comes
// from configuration so test environments can run cheap hashes while
// production raises it; anything below bcrypt's minimum falls back to the
// library default rather than silently weakening hashes.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant-time inside bcrypt.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
