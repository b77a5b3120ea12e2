package helper

import (
	"time"

	"dutyfree_shop/constants"
	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidClaims = errors.New("invalid token claims")

// GenerateAccessToken signs claim with HS256. Logins live in the identity
// service; this is used by tooling and tests.
func GenerateAccessToken(claim model.TokenClaim, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"customerId": claim.CustomerId,
		"username":   claim.Username,
		"role":       claim.Role,
		"exp":        time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}
	return signed, nil
}

// ClaimFromToken reads the claims of a parsed token.
func ClaimFromToken(token *jwt.Token) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}, ErrInvalidClaims
	}
	id, ok := claims["customerId"].(float64)
	if !ok || id <= 0 {
		return model.TokenClaim{}, ErrInvalidClaims
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = constants.ROLE_CUSTOMER
	}
	return model.TokenClaim{CustomerId: uint(id), Username: username, Role: role}, nil
}

// GetInfoCustomerFromToken returns the claim and customer the auth
// middleware stored on the request. ok is false for guests.
func GetInfoCustomerFromToken(c *fiber.Ctx) (model.TokenClaim, *model.Customer, bool) {
	token, _ := c.Locals(constants.LOCALS_TOKEN).(*jwt.Token)
	customer, _ := c.Locals(constants.LOCALS_CUSTOMER).(*model.Customer)
	if token == nil || customer == nil {
		return model.TokenClaim{}, nil, false
	}
	claim, err := ClaimFromToken(token)
	if err != nil {
		return model.TokenClaim{}, nil, false
	}
	return claim, customer, true
}
