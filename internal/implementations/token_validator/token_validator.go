package tokenvalidator

import (
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt checks API tokens against a single bcrypt hash.
type Bcrypt struct {
	hash []byte
}

func NewBcrypt(hash string) *Bcrypt {
	return &Bcrypt{hash: []byte(hash)}
}

func (v *Bcrypt) ValidateToken(token string) bool {
	err := bcrypt.CompareHashAndPassword(v.hash, []byte(token))
	return err == nil
}

// Hash returns the value to put into API_TOKEN_HASH for the given token.
func Hash(token string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AllowAlways accepts every token. Used in test mode only.
type AllowAlways struct{}

func NewAllowAlways() AllowAlways {
	return AllowAlways{}
}

func (AllowAlways) ValidateToken(token string) bool {
	return true
}
