package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdCategory is the marketplace category of an ad
type AdCategory string

const (
	CategoryVehicle    AdCategory = "vehicle"
	CategoryRealEstate AdCategory = "real-estate"
	CategoryElectronic AdCategory = "electronics"
	CategoryOther      AdCategory = "other"
)

// AdSpecs holds the optional category-specific attributes of an ad
type AdSpecs struct {
	Fuel         string `bson:"fuel,omitempty" json:"fuel,omitempty"`
	Transmission string `bson:"transmission,omitempty" json:"transmission,omitempty"`
	Mileage      string `bson:"mileage,omitempty" json:"mileage,omitempty"`
	Type         string `bson:"type,omitempty" json:"type,omitempty"`
	Design       string `bson:"design,omitempty" json:"design,omitempty"`
}

// Ad represents a classified listing. The boost flow only ever touches
// IsFeatured and FeaturedExpiresAt; everything else belongs to the listing UI.
type Ad struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            string             `bson:"userId" json:"userId"`
	Title             string             `bson:"title" json:"title"`
	Price             int                `bson:"price" json:"price"`
	Currency          string             `bson:"currency" json:"currency"`
	Location          string             `bson:"location" json:"location"`
	Category          AdCategory         `bson:"category" json:"category"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	Contact           string             `bson:"contact,omitempty" json:"contact,omitempty"`
	Image             string             `bson:"image,omitempty" json:"image,omitempty"`
	Images            []string           `bson:"images,omitempty" json:"images,omitempty"`
	Specs             *AdSpecs           `bson:"specs,omitempty" json:"specs,omitempty"`
	Views             int                `bson:"views" json:"views"`
	IsFeatured        bool               `bson:"isFeatured" json:"isFeatured"`
	FeaturedExpiresAt *time.Time         `bson:"featuredExpiresAt,omitempty" json:"featuredExpiresAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
