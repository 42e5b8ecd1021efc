package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost стоимость bcrypt по умолчанию
const DefaultCost = bcrypt.DefaultCost

// Hasher хеширует пароли с помощью bcrypt.
// Соль генерируется для каждого вызова Hash, поэтому одинаковые пароли
// дают разные хеши.
type Hasher struct {
	cost int
}

// NewHasher создает Hasher с заданной стоимостью.
// Значения вне диапазона bcrypt заменяются на DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash возвращает bcrypt хеш пароля
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify сравнивает пароль с хешем.
// Некорректный хеш дает false.
func (h *Hasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
