package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with bcrypt at the given
// cost. The cost comes from configuration (BCRYPT_COST) so deployments
// can tune hashing time without a code change; only the resulting hash
// is ever stored.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plaintext password matches the
// stored bcrypt hash. The comparison is constant-time inside bcrypt;
// any mismatch or malformed hash simply reads as false.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
