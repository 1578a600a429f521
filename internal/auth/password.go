package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// decoyHashes caches one decoy hash per bcrypt cost.
var decoyHashes sync.Map

func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), normalizeCost(cost))
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// CompareDecoy spends the same work as ComparePassword against a hash of the
// given cost, so response timing does not reveal whether an email is registered.
func CompareDecoy(plain string, cost int) {
	cost = normalizeCost(cost)
	hash, ok := decoyHashes.Load(cost)
	if !ok {
		generated, _ := bcrypt.GenerateFromPassword([]byte("decoy-password"), cost)
		hash, _ = decoyHashes.LoadOrStore(cost, generated)
	}
	_ = bcrypt.CompareHashAndPassword(hash.([]byte), []byte(plain))
}
