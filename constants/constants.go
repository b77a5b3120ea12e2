package constants

// Response messages
const (
	DATA_INPUT_IS_NOT_NUMBER = "Input must be a number"
	ERROR_INTERNAL_ERROR     = "Internal server error"
	ERROR_INVALID_INPUT      = "Invalid input"
	ERROR_UNAUTHORIZED       = "Please sign in"
	ERROR_FORBIDDEN          = "You do not have access to this resource"

	ORDER_NOT_FOUND          = "Order not found"
	ORDER_CREATED            = "Order created successfully"
	ORDER_UPDATED            = "Order updated successfully"
	ORDER_CANCELLED          = "Order cancelled successfully"
	ORDER_INVALID_TRANSITION = "Order status cannot change that way"

	COUPON_NOT_FOUND   = "Coupon not found"
	COUPON_REJECTED    = "Coupon cannot be applied"
	COUPON_APPLIED     = "Coupon applied successfully"
	COUPON_DEACTIVATED = "Coupon deactivated"

	QR_NOT_FOUND   = "QR code not found"
	QR_DEACTIVATED = "QR code deactivated successfully"

	PRODUCT_NOT_FOUND = "Product not found"
	REVIEW_NOT_FOUND  = "Review not found"
)

// Roles carried in the access token
const (
	ROLE_CUSTOMER = "customer"
	ROLE_STAFF    = "staff"
	ROLE_ADMIN    = "admin"
)

// Keys stored in fiber Locals
const (
	LOCALS_TOKEN    = "user"
	LOCALS_CUSTOMER = "customer"
	LOCALS_INPUT    = "input"
)

// Cache TTLs in seconds
const (
	CACHE_TTL_SHORT     = 2 * 60
	CACHE_TTL_MEDIUM    = 5 * 60
	CACHE_TTL_LONG      = 15 * 60
	CACHE_TTL_VERY_LONG = 60 * 60
)

const (
	ORDER_CODE_PREFIX = "ORD-"
	QR_CODE_PREFIX    = "DFS-"
	DEFAULT_LIMIT     = 20
)
