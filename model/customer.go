package model

type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

type Customer struct {
	DTO
	Email     string `gorm:"unique;not null" json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Language  string `gorm:"size:5;not null;default:'en'" json:"language"`

	LoyaltyTier   LoyaltyTier `gorm:"size:20;not null" json:"loyaltyTier"`
	LoyaltyPoints int         `gorm:"not null;default:0" json:"loyaltyPoints"`

	IsActive bool `json:"isActive"`
}

func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type LoyaltySummary struct {
	CustomerId   uint        `json:"customerId"`
	Points       int         `json:"points"`
	Tier         LoyaltyTier `json:"tier"`
	NextTier     LoyaltyTier `json:"nextTier,omitempty"`
	PointsToNext int         `json:"pointsToNext"`
}
