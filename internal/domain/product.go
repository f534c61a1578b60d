package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is one garment type users can pick as the base of a generation.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Category  string             `bson:"category" json:"category"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultProducts returns the built-in garment catalog, used by the seeder and
// as a fallback when the products collection is empty.
func DefaultProducts() []Product {
	items := []struct {
		name     string
		image    string
		category string
	}{
		{"Hoodie", "/ProductTypeHooide.svg", "hoodie"},
		{"Blazer", "/ProductTypeBlazer.svg", "blazer"},
		{"Parka", "/ProductTypeParka.svg", "parka"},
		{"Cardigan", "/ProductTypeCardigan.svg", "cardigan"},
		{"Shrug", "/ProductTypeShurg.svg", "shrug"},
		{"Skirt", "/ProductTypeSkirt.svg", "skirt"},
		{"Overalls", "/ProductTypeOveralls.svg", "overalls"},
		{"Blouse", "/ProductTypeBlouse.svg", "blouse"},
		{"Kurta", "/ProductTypeKurta.svg", "kurta"},
		{"Dress", "/ProductTypeDress.svg", "dress"},
	}
	products := make([]Product, 0, len(items))
	for _, item := range items {
		products = append(products, Product{
			Name:     item.name,
			Image:    item.image,
			Category: item.category,
			IsActive: true,
		})
	}
	return products
}
