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

/* =========================
   REQUEST DTOs
========================= */

type createRecipeRequest struct {
	Title        string                  `json:"title" binding:"required"`
	Description  string                  `json:"description"`
	Ingredients  map[string]string       `json:"ingredients"`
	Instructions []string                `json:"instructions"`
	Tags         []string                `json:"tags"`
	Category     string                  `json:"category"`
	PrepTime     string                  `json:"prepTime"`
	CookTime     string                  `json:"cookTime"`
	Images       []string                `json:"images"`
	Nutrition    []models.NutritionEntry `json:"nutrition"`
}

type updateRecipeRequest struct {
	Title        *string                 `json:"title"`
	Description  *string                 `json:"description"`
	Ingredients  map[string]string       `json:"ingredients"`
	Instructions []string                `json:"instructions"`
	Tags         []string                `json:"tags"`
	Category     *string                 `json:"category"`
	PrepTime     *string                 `json:"prepTime"`
	CookTime     *string                 `json:"cookTime"`
	Images       []string                `json:"images"`
	Nutrition    []models.NutritionEntry `json:"nutrition"`
}

/* =========================
   LIST / GET
========================= */

// GET /recipes
func GetRecipes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /recipes"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		params := parseRecipeQueryParams(c.Query, c.QueryArray)
		query := buildRecipeQuery(params)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("recipes").CountDocuments(ctx, query.Filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		findOptions := options.Find().
			SetSkip(query.Skip).
			SetLimit(query.Limit)
		if query.Sort != nil {
			findOptions.SetSort(query.Sort)
		}

		cursor, err := db.Collection("recipes").Find(ctx, query.Filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		recipes := make([]models.Recipe, 0)
		if err := cursor.All(ctx, &recipes); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d of %d recipes", route, len(recipes), total)
		c.JSON(http.StatusOK, gin.H{
			"recipes":    recipes,
			"total":      total,
			"totalPages": totalPages(total, query.Limit),
			"appliedFilters": gin.H{
				"search":      params.Search,
				"tags":        params.Tags,
				"ingredients": params.Ingredients,
				"matchType":   params.MatchType,
				"category":    params.Category,
				"sortBy":      params.SortBy,
				"order":       params.Order,
			},
		})
	}
}

// GET /recipes/:id
func GetRecipe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /recipes/:id"
		defer handlePanic(c, route)

		recipeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "recipe not found")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var recipe models.Recipe
		if err := db.Collection("recipes").FindOne(ctx, bson.M{"_id": recipeID}).Decode(&recipe); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "recipe not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, recipe)
	}
}

/* =========================
   CREATE / UPDATE / DELETE
========================= */

// POST /recipes
func CreateRecipe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /recipes"

		caller, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createRecipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		now := time.Now()
		recipe := models.Recipe{
			Title:        strings.TrimSpace(req.Title),
			Description:  strings.TrimSpace(req.Description),
			Ingredients:  req.Ingredients,
			Instructions: req.Instructions,
			Tags:         req.Tags,
			Category:     strings.TrimSpace(req.Category),
			PrepTime:     strings.TrimSpace(req.PrepTime),
			CookTime:     strings.TrimSpace(req.CookTime),
			Images:       req.Images,
			Nutrition:    models.NutritionList(req.Nutrition),
			Reviews:      []models.Review{},
			CreatedBy:    caller.UserID,
			CreatedAt:    now,
		}
		if recipe.Ingredients == nil {
			recipe.Ingredients = map[string]string{}
		}
		if recipe.Instructions == nil {
			recipe.Instructions = []string{}
		}
		if recipe.Tags == nil {
			recipe.Tags = []string{}
		}
		if recipe.Images == nil {
			recipe.Images = []string{}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("recipes").InsertOne(ctx, recipe)
		if err != nil {
			log.Println("[RECIPE] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		log.Println("[RECIPE] [INFO] recipe created:", id.Hex())
		c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
	}
}

// PUT /recipes/:id
func UpdateRecipe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /recipes/:id"

		caller, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		recipeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "recipe not found")
			return
		}

		var req updateRecipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updates := bson.M{}
		if req.Title != nil {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			updates["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Ingredients != nil {
			updates["ingredients"] = req.Ingredients
		}
		if req.Instructions != nil {
			updates["instructions"] = req.Instructions
		}
		if req.Tags != nil {
			updates["tags"] = req.Tags
		}
		if req.Category != nil {
			updates["category"] = strings.TrimSpace(*req.Category)
		}
		if req.PrepTime != nil {
			updates["prepTime"] = strings.TrimSpace(*req.PrepTime)
		}
		if req.CookTime != nil {
			updates["cookTime"] = strings.TrimSpace(*req.CookTime)
		}
		if req.Images != nil {
			updates["images"] = req.Images
		}
		if req.Nutrition != nil {
			updates["nutrition"] = models.NutritionList(req.Nutrition)
		}
		if len(updates) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// The creator filter doubles as the authorization boundary: a recipe
		// someone else created looks absent.
		res, err := db.Collection("recipes").UpdateOne(ctx,
			bson.M{"_id": recipeID, "createdBy": caller.UserID},
			bson.M{"$set": updates},
		)
		if err != nil {
			log.Println("[RECIPE] [ERROR] update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "recipe not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DELETE /recipes/:id
func DeleteRecipe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /recipes/:id"

		caller, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		recipeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "recipe not found")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("recipes").DeleteOne(ctx, bson.M{"_id": recipeID, "createdBy": caller.UserID})
		if err != nil {
			log.Println("[RECIPE] [ERROR] delete failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "recipe not found")
			return
		}

		// Favorites pointing at the deleted recipe are left in place; the
		// favorites list path skips pairs it cannot resolve.
		log.Println("[RECIPE] [INFO] recipe deleted:", recipeID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
