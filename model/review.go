package model

type Review struct {
	DTO
	ProductId    uint   `gorm:"not null;index" json:"productId"`
	CustomerId   uint   `gorm:"not null;index" json:"userId"`
	Rating       int    `gorm:"not null" json:"rating"`
	TitleEn      string `json:"titleEn"`
	TitleEs      string `json:"titleEs"`
	CommentEn    string `gorm:"type:text" json:"commentEn"`
	CommentEs    string `gorm:"type:text" json:"commentEs"`
	Verified     bool   `json:"verified"`
	HelpfulCount int    `gorm:"not null;default:0" json:"helpfulCount"`

	UserName string `gorm:"->;-:migration" json:"userName,omitempty"`
}

type ReviewStats struct {
	AverageRating float64     `json:"averageRating"`
	TotalReviews  int64       `json:"totalReviews"`
	Distribution  map[int]int `json:"distribution"`
}

type CreateReviewInput struct {
	ProductId uint   `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	TitleEn   string `json:"titleEn" validate:"max=200"`
	TitleEs   string `json:"titleEs" validate:"max=200"`
	CommentEn string `json:"commentEn"`
	CommentEs string `json:"commentEs"`
}
