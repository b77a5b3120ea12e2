package middleware

import (
	"context"
	"strings"

	"dutyfree_shop/constants"
	"dutyfree_shop/helper"
	"dutyfree_shop/model"
	"dutyfree_shop/utils"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// CustomerLookup resolves the customer named by an access token.
type CustomerLookup interface {
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
}

type Auth struct {
	secret    []byte
	customers CustomerLookup
}

func NewAuth(secret string, customers CustomerLookup) *Auth {
	return &Auth{secret: []byte(secret), customers: customers}
}

func bearerToken(c *fiber.Ctx) string {
	token := c.Cookies("access_token")
	if token == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return strings.TrimSpace(token)
}

func (a *Auth) parse(token string) (*jwt.Token, error) {
	return jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
}

// authenticate parses the token and loads its customer into Locals.
func (a *Auth) authenticate(c *fiber.Ctx, token string) error {
	jwtToken, err := a.parse(token)
	if err != nil {
		return errors.Wrap(err, "parse token")
	}
	if !jwtToken.Valid {
		return errors.New("invalid token")
	}
	claim, err := helper.ClaimFromToken(jwtToken)
	if err != nil {
		return err
	}
	customer, err := a.customers.FindByID(c.UserContext(), claim.CustomerId)
	if err != nil {
		return errors.Wrapf(err, "load customer %d", claim.CustomerId)
	}
	if !customer.IsActive {
		return errors.New("customer is inactive")
	}
	c.Locals(constants.LOCALS_TOKEN, jwtToken)
	c.Locals(constants.LOCALS_CUSTOMER, customer)
	return nil
}

func (a *Auth) Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_UNAUTHORIZED, errors.New("no token"))
		}
		if err := a.authenticate(c, token); err != nil {
			log.Debug().Err(err).Msg("rejected access token")
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token", err)
		}
		return c.Next()
	}
}

// OptionalJWT authenticates when a token is present and treats the caller as
// a guest otherwise.
func (a *Auth) OptionalJWT() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}
		if err := a.authenticate(c, token); err != nil {
			log.Debug().Err(err).Msg("ignoring invalid access token")
		}
		return c.Next()
	}
}

// StaffOnly must run after Protected.
func StaffOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, _, ok := helper.GetInfoCustomerFromToken(c)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_UNAUTHORIZED, nil)
		}
		if !helper.IsStaff(claim) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ERROR_FORBIDDEN, nil)
		}
		return c.Next()
	}
}
