package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recipebox/internal/models"
)

type favoriteRequest struct {
	RecipeID string `json:"recipeId" binding:"required"`
}

// favoriteView couples a ledger entry with its resolved recipe summary.
type favoriteView struct {
	ID        primitive.ObjectID `json:"id"`
	RecipeID  primitive.ObjectID `json:"recipeId"`
	CreatedAt time.Time          `json:"createdAt"`
	Recipe    models.Recipe      `json:"recipe"`
}

// resolveFavoriteRecipes keeps the ledger's newest-first order and silently
// skips favorites whose recipe no longer exists. Orphaned pairs are
// tolerated; recipe deletion does not cascade into the ledger.
func resolveFavoriteRecipes(favorites []models.Favorite, recipesByID map[primitive.ObjectID]models.Recipe) []favoriteView {
	views := make([]favoriteView, 0, len(favorites))
	for _, favorite := range favorites {
		recipe, exists := recipesByID[favorite.RecipeID]
		if !exists {
			continue
		}
		views = append(views, favoriteView{
			ID:        favorite.ID,
			RecipeID:  favorite.RecipeID,
			CreatedAt: favorite.CreatedAt,
			Recipe:    recipe,
		})
	}
	return views
}

func ownerEmailFromContext(c *gin.Context, route string) (string, bool) {
	caller, ok := identityFromContext(c)
	if !ok || strings.TrimSpace(caller.Email) == "" {
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(caller.Email)), true
}

// GET /favorites?action=count|list
func GetFavorites(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /favorites"
		defer handlePanic(c, route)

		ownerEmail, ok := ownerEmailFromContext(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if c.Query("action") == "count" {
			count, err := db.Collection("favorites").CountDocuments(ctx, bson.M{"ownerEmail": ownerEmail})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			c.JSON(http.StatusOK, gin.H{"count": count})
			return
		}

		cursor, err := db.Collection("favorites").Find(ctx,
			bson.M{"ownerEmail": ownerEmail},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		favorites := make([]models.Favorite, 0)
		if err := cursor.All(ctx, &favorites); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		if len(favorites) == 0 {
			c.JSON(http.StatusOK, gin.H{"favorites": []favoriteView{}})
			return
		}

		recipeIDs := make([]primitive.ObjectID, 0, len(favorites))
		for _, favorite := range favorites {
			recipeIDs = append(recipeIDs, favorite.RecipeID)
		}

		recipeCursor, err := db.Collection("recipes").Find(ctx, bson.M{"_id": bson.M{"$in": recipeIDs}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer recipeCursor.Close(ctx)

		recipes := make([]models.Recipe, 0, len(favorites))
		if err := recipeCursor.All(ctx, &recipes); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		recipesByID := make(map[primitive.ObjectID]models.Recipe, len(recipes))
		for _, recipe := range recipes {
			recipesByID[recipe.ID] = recipe
		}

		c.JSON(http.StatusOK, gin.H{"favorites": resolveFavoriteRecipes(favorites, recipesByID)})
	}
}

// POST /favorites
func AddFavorite(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /favorites"

		ownerEmail, ok := ownerEmailFromContext(c, route)
		if !ok {
			return
		}

		var req favoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		recipeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.RecipeID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid recipeId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := db.Collection("recipes").FindOne(ctx, bson.M{"_id": recipeID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusBadRequest, route, "invalid recipeId")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		favorite := models.Favorite{
			OwnerEmail: ownerEmail,
			RecipeID:   recipeID,
			CreatedAt:  time.Now(),
		}

		_, err = db.Collection("favorites").InsertOne(ctx, favorite)
		if err != nil {
			// The unique (ownerEmail, recipeId) index is the enforcement
			// mechanism; its conflict is a success with notice, not an error.
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusOK, gin.H{"message": "recipe already in favorites"})
				return
			}
			log.Println("[FAVORITE] [ERROR] add favorite failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "recipe added to favorites"})
	}
}

// DELETE /favorites
func RemoveFavorite(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /favorites"

		ownerEmail, ok := ownerEmailFromContext(c, route)
		if !ok {
			return
		}

		var req favoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		recipeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.RecipeID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid recipeId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("favorites").DeleteOne(ctx, bson.M{
			"ownerEmail": ownerEmail,
			"recipeId":   recipeID,
		})
		if err != nil {
			log.Println("[FAVORITE] [ERROR] remove favorite failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "favorite not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "recipe removed from favorites"})
	}
}
