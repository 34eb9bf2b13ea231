package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an account password with the configured bcrypt
// cost. A non-positive cost falls back to the bcrypt default so a
// missing config value never produces weak hashes.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a login or password-change attempt against the
// stored hash. A non-nil error means the attempt must be rejected.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
