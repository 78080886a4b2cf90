package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed so every stored digest carries the same work factor.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. The result is salted,
// so hashing the same plaintext twice yields different digests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// digest. A mismatch returns false, never an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
