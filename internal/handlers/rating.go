package handlers

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"recipebox/internal/models"
)

// reduceRatings computes the derived rating fields from a review list:
// average rounded to 1 decimal (0 when empty) and the review count.
func reduceRatings(reviews []models.Review) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}

	average := math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return average, len(reviews)
}

// recomputeRating re-reads the recipe's review list and persists the derived
// averageRating and reviewCount. Idempotent: unchanged reviews yield the same
// write. There is no retry; when this fails after a committed review
// mutation, the caller reports the rating as stale rather than rolling back.
func recomputeRating(ctx context.Context, db *mongo.Database, recipeID primitive.ObjectID) error {
	var recipe models.Recipe
	if err := db.Collection("recipes").FindOne(ctx, bson.M{"_id": recipeID}).Decode(&recipe); err != nil {
		return err
	}

	average, count := reduceRatings(recipe.Reviews)

	_, err := db.Collection("recipes").UpdateByID(ctx, recipeID, bson.M{
		"$set": bson.M{
			"averageRating": average,
			"reviewCount":   count,
		},
	})
	return err
}
