package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

// is returned when shop/secret don't match.
var ErrInvalidCredentials = errors.New("invalid shop or secret")

// uses bcrypt to hash a plaintext API secret.
func HashSecret(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// compares a bcrypt hash with the plaintext.
func CheckSecret(hash, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// retrieves *model.Shop from Gin context (after JWTMiddleware has run).
func GetCurrentShop(c *gin.Context) (*model.Shop, bool) {
	s, exists := c.Get("currentShop")
	if !exists {
		return nil, false
	}
	shop, ok := s.(*model.Shop)
	return shop, ok
}
