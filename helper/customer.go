package helper

import (
	"dutyfree_shop/constants"
	"dutyfree_shop/model"

	"github.com/gofiber/fiber/v2"
)

func CurrentCustomer(c *fiber.Ctx) (*model.Customer, bool) {
	customer, ok := c.Locals(constants.LOCALS_CUSTOMER).(*model.Customer)
	return customer, ok && customer != nil
}

func IsStaff(claim model.TokenClaim) bool {
	return claim.Role == constants.ROLE_STAFF || claim.Role == constants.ROLE_ADMIN
}
