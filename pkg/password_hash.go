package pkg

import "golang.org/x/crypto/bcrypt"

const DefaultPasswordCost = 14

func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, DefaultPasswordCost)
}

// HashPasswordWithCost is used where the default cost is too slow (tests, low-end devices)
func HashPasswordWithCost(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return BytesToString(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
