package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite records a single (ownerEmail, recipeId) pair. The compound unique
// index on those two fields is what makes duplicate adds detectable; the pair
// is never duplicated, only re-reported as already present.
type Favorite struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerEmail string             `bson:"ownerEmail" json:"ownerEmail"`
	RecipeID   primitive.ObjectID `bson:"recipeId" json:"recipeId"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
