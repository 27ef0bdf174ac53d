package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"recipebox/internal/models"
)

// GET /categories
func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(ctx, bson.M{"isActive": true})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		categories := make([]models.Category, 0)
		if err := cursor.All(ctx, &categories); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, categories)
	}
}

// GET /allergens
func GetAllergens(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /allergens"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("allergens").Find(ctx, bson.M{"isActive": true})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		allergens := make([]models.Allergen, 0)
		if err := cursor.All(ctx, &allergens); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, allergens)
	}
}

// GET /recipes/tags
//
// Distinct tags across all recipes, feeding the filter UI.
func GetRecipeTags(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /recipes/tags"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := mongo.Pipeline{
			{{Key: "$unwind", Value: "$tags"}},
			{{Key: "$group", Value: bson.M{
				"_id":  nil,
				"tags": bson.M{"$addToSet": "$tags"},
			}}},
		}

		cursor, err := db.Collection("recipes").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var results []struct {
			Tags []string `bson:"tags"`
		}
		if err := cursor.All(ctx, &results); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		tags := []string{}
		if len(results) > 0 {
			tags = results[0].Tags
			sort.Strings(tags)
		}

		c.JSON(http.StatusOK, gin.H{"tags": tags})
	}
}
