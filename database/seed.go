package database

import (
	"dutyfree_shop/model"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int {
	return &n
}

func SeedData(db *gorm.DB) {
	categories := []model.Category{
		{Code: "perfumes", NameEn: "Perfumes & Fragrances", NameEs: "Perfumes y Fragancias", DisplayOrder: 1},
		{Code: "alcohol", NameEn: "Alcohol & Spirits", NameEs: "Alcohol y Licores", DisplayOrder: 2},
		{Code: "electronics", NameEn: "Electronics", NameEs: "Electrónica", DisplayOrder: 3},
		{Code: "confectionery", NameEn: "Confectionery", NameEs: "Confitería", DisplayOrder: 4},
		{Code: "cosmetics", NameEn: "Cosmetics & Skincare", NameEs: "Cosméticos y Cuidado de la Piel", DisplayOrder: 5},
		{Code: "accessories", NameEn: "Fashion Accessories", NameEs: "Accesorios de Moda", DisplayOrder: 6},
	}
	for _, category := range categories {
		if err := db.Where(model.Category{Code: category.Code}).FirstOrCreate(&category).Error; err != nil {
			log.Error().Err(err).Str("category", category.Code).Msg("failed to seed category")
		}
	}

	products := []model.Product{
		{NameEn: "Chanel No. 5 Eau de Parfum 100ml", NameEs: "Chanel No. 5 Eau de Parfum 100ml", Price: price("125.00"), OriginalPrice: price("165.00"),
			Category: "perfumes", SubCategory: "women", Brand: "Chanel", ImageUrl: "/images/products/chanel-no5.jpg", Stock: 15, Terminal: "T1", Featured: true},
		{NameEn: "Dior Sauvage Eau de Parfum 100ml", NameEs: "Dior Sauvage Eau de Parfum 100ml", Price: price("98.50"), OriginalPrice: price("135.00"),
			Category: "perfumes", SubCategory: "men", Brand: "Dior", ImageUrl: "/images/products/dior-sauvage.jpg", Stock: 22, Terminal: "T1", Featured: true},
		{NameEn: "Johnnie Walker Blue Label 750ml", NameEs: "Johnnie Walker Blue Label 750ml", Price: price("189.99"), OriginalPrice: price("249.99"),
			Category: "alcohol", SubCategory: "whisky", Brand: "Johnnie Walker", ImageUrl: "/images/products/jw-blue.jpg", Stock: 8, Terminal: "T1", Featured: true},
		{NameEn: "Moët & Chandon Impérial Brut 750ml", NameEs: "Moët & Chandon Impérial Brut 750ml", Price: price("52.00"), OriginalPrice: price("75.00"),
			Category: "alcohol", SubCategory: "champagne", Brand: "Moët & Chandon", ImageUrl: "/images/products/moet.jpg", Stock: 18, Terminal: "T1", Featured: true},
		{NameEn: "Sony WH-1000XM5 Wireless Headphones", NameEs: "Sony WH-1000XM5 Audífonos Inalámbricos", Price: price("349.99"), OriginalPrice: price("399.99"),
			Category: "electronics", SubCategory: "audio", Brand: "Sony", ImageUrl: "/images/products/sony-xm5.jpg", Stock: 12, Terminal: "T2", Featured: true},
		{NameEn: "Toblerone Gift Box 600g", NameEs: "Caja de Regalo Toblerone 600g", Price: price("18.90"), OriginalPrice: price("24.00"),
			Category: "confectionery", SubCategory: "chocolate", Brand: "Toblerone", ImageUrl: "/images/products/toblerone.jpg", Stock: 60, Terminal: "T2"},
	}
	for _, product := range products {
		product.Slug = slug.Make(product.NameEn)
		product.Currency = "USD"
		if err := db.Where(model.Product{Slug: product.Slug}).FirstOrCreate(&product).Error; err != nil {
			log.Error().Err(err).Str("product", product.Slug).Msg("failed to seed product")
		}
	}

	coupons := []model.Coupon{
		{Code: "WELCOME20", Type: model.DiscountPercentage, Value: price("20"), MinPurchase: price("50"), MaxDiscount: decimal.NewNullDecimal(price("100")),
			DescriptionEn: "Welcome discount - 20% off", DescriptionEs: "Descuento de bienvenida - 20% de descuento", Active: true, UsageLimit: intPtr(1000)},
		{Code: "PERFUME15", Type: model.DiscountPercentage, Value: price("15"), MinPurchase: price("80"), MaxDiscount: decimal.NewNullDecimal(price("50")),
			DescriptionEn: "15% off fragrances", DescriptionEs: "15% de descuento en fragancias", Active: true,
			Categories: []model.CouponCategory{{CategoryCode: "perfumes"}}},
		{Code: "GOLD25", Type: model.DiscountFixed, Value: price("25"), MinPurchase: price("150"),
			DescriptionEn: "$25 off for Gold members", DescriptionEs: "$25 de descuento para miembros Gold", Active: true, LoyaltyTierRequired: model.TierGold},
		{Code: "FREEPICKUP", Type: model.DiscountShipping, Value: decimal.Zero, MinPurchase: price("30"), MaxDiscount: decimal.NewNullDecimal(price("10")),
			DescriptionEn: "Free express pickup", DescriptionEs: "Recogida exprés gratis", Active: true},
	}
	for _, coupon := range coupons {
		if err := db.Where(model.Coupon{Code: coupon.Code}).FirstOrCreate(&coupon).Error; err != nil {
			log.Error().Err(err).Str("coupon", coupon.Code).Msg("failed to seed coupon")
		}
	}

	customer := model.Customer{Email: "demo@dutyfree.local", FirstName: "Demo", LastName: "Traveller", Language: "en", LoyaltyTier: model.TierBronze, IsActive: true}
	if err := db.Where(model.Customer{Email: customer.Email}).FirstOrCreate(&customer).Error; err != nil {
		log.Error().Err(err).Str("customer", customer.Email).Msg("failed to seed customer")
	}
}
