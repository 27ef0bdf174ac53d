package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index provisioning runs once at startup so request handlers can assume the
// schema exists. Index creation is idempotent; rerunning at every boot is
// harmless.

func EnsureRecipeIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("recipes").Indexes()

	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}
	tagsIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "tags", Value: 1}},
		Options: options.Index().SetName("tags_index"),
	}

	log.Println("EnsureRecipeIndexes: creating recipe indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{createdAtIndex, tagsIndex})
	if err != nil {
		log.Println("EnsureRecipeIndexes: recipe index error:", err)
		return err
	}
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

// EnsureFavoriteIndexes provisions the compound unique index that the
// favorites ledger's duplicate-to-success translation depends on.
func EnsureFavoriteIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("favorites").Indexes()

	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "ownerEmail", Value: 1},
			{Key: "recipeId", Value: 1},
		},
		Options: options.Index().
			SetName("ownerEmail_recipeId_unique").
			SetUnique(true),
	}

	log.Println("EnsureFavoriteIndexes: creating ownerEmail_recipeId_unique index")
	_, err := indexes.CreateOne(ctx, pairIndex)
	if err != nil {
		log.Println("EnsureFavoriteIndexes: favorite index error:", err)
		return err
	}
	return nil
}

func EnsureShoppingListIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("shopping_lists").Indexes()

	ownerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}},
		Options: options.Index().SetName("ownerId_index"),
	}

	log.Println("EnsureShoppingListIndexes: creating ownerId_index index")
	_, err := indexes.CreateOne(ctx, ownerIndex)
	if err != nil {
		log.Println("EnsureShoppingListIndexes: ownerId index error:", err)
		return err
	}
	return nil
}
