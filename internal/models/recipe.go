package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded inside its recipe document. A recipe holds at most one
// review per owner; OwnerName is kept alongside OwnerID because reviews
// written before stable identity binding can only be matched by display name.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	OwnerName string    `bson:"ownerName" json:"ownerName"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Recipe is the persisted recipe document. AverageRating and ReviewCount are
// derived from Reviews and recomputed after every review mutation.
type Recipe struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Ingredients   map[string]string  `bson:"ingredients" json:"ingredients"`
	Instructions  []string           `bson:"instructions" json:"instructions"`
	Tags          []string           `bson:"tags" json:"tags"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	PrepTime      string             `bson:"prepTime,omitempty" json:"prepTime,omitempty"`
	CookTime      string             `bson:"cookTime,omitempty" json:"cookTime,omitempty"`
	Images        []string           `bson:"images" json:"images"`
	Nutrition     NutritionList      `bson:"nutrition,omitempty" json:"nutrition,omitempty"`
	Reviews       []Review           `bson:"reviews" json:"reviews"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	ReviewCount   int                `bson:"reviewCount" json:"reviewCount"`
	CreatedBy     primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
