package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents the application user account. PasswordHash is empty for
// accounts created through the OAuth exchange; ProviderID carries the
// external identity linkage for those accounts.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	ProviderID   string             `bson:"providerId,omitempty" json:"providerId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
