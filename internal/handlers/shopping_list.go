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

type newShoppingItemRequest struct {
	IngredientName string        `json:"ingredientName" binding:"required"`
	Amount         models.Amount `json:"amount"`
}

type fullShoppingItemRequest struct {
	IngredientName string        `json:"ingredientName" binding:"required"`
	Amount         models.Amount `json:"amount"`
	Purchased      bool          `json:"purchased"`
	AddedAt        time.Time     `json:"addedAt"`
}

type createShoppingListRequest struct {
	Items []newShoppingItemRequest `json:"items"`
}

type appendItemsRequest struct {
	Items []newShoppingItemRequest `json:"items" binding:"required,min=1,dive"`
}

type removeItemRequest struct {
	Index *int `json:"index" binding:"required"`
}

type replaceItemsRequest struct {
	Items *[]fullShoppingItemRequest `json:"items" binding:"required,dive"`
}

/* =========================
   ITEM HELPERS
========================= */

// stampNewItems materializes incoming items: every new item starts
// unpurchased with addedAt set to now.
func stampNewItems(items []newShoppingItemRequest, now time.Time) []models.ShoppingItem {
	stamped := make([]models.ShoppingItem, 0, len(items))
	for _, item := range items {
		stamped = append(stamped, models.ShoppingItem{
			IngredientName: strings.TrimSpace(item.IngredientName),
			Amount:         item.Amount,
			Purchased:      false,
			AddedAt:        now,
		})
	}
	return stamped
}

// removeItemAt drops exactly the element at index from a copy of the items
// sequence. Items have no identity beyond their position, so the caller gets
// whatever currently occupies that index.
func removeItemAt(items []models.ShoppingItem, index int) ([]models.ShoppingItem, bool) {
	if index < 0 || index >= len(items) {
		return nil, false
	}

	remaining := make([]models.ShoppingItem, 0, len(items)-1)
	remaining = append(remaining, items[:index]...)
	remaining = append(remaining, items[index+1:]...)
	return remaining, true
}

// fetchOwnedList filters by both list id and owner so a list belonging to
// someone else is indistinguishable from a missing one.
func fetchOwnedList(ctx context.Context, db *mongo.Database, c *gin.Context, route string, ownerID primitive.ObjectID) (*models.ShoppingList, bool) {
	listID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondWithError(c, http.StatusNotFound, route, "shopping list not found")
		return nil, false
	}

	var list models.ShoppingList
	err = db.Collection("shopping_lists").FindOne(ctx, bson.M{
		"_id":     listID,
		"ownerId": ownerID,
	}).Decode(&list)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "shopping list not found")
			return nil, false
		}
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return nil, false
	}

	return &list, true
}

func writeListItems(ctx context.Context, db *mongo.Database, listID primitive.ObjectID, items []models.ShoppingItem) (time.Time, error) {
	updatedAt := time.Now()
	_, err := db.Collection("shopping_lists").UpdateByID(ctx, listID, bson.M{
		"$set": bson.M{
			"items":     items,
			"updatedAt": updatedAt,
		},
	})
	return updatedAt, err
}

/* =========================
   HANDLERS
========================= */

// POST /shopping-list
func CreateShoppingList(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /shopping-list"

		caller, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createShoppingListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		now := time.Now()
		list := models.ShoppingList{
			OwnerID:   caller.UserID,
			Items:     stampNewItems(req.Items, now),
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("shopping_lists").InsertOne(ctx, list)
		if err != nil {
			log.Println("[SHOPPING] [ERROR] create list failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		log.Println("[SHOPPING] [INFO] list created:", id.Hex())
		c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
	}
}

// GET /shopping-list
func GetShoppingLists(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shopping-list"
		defer handlePanic(c, route)

		caller, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("shopping_lists").Find(ctx,
			bson.M{"ownerId": caller.UserID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		lists := make([]models.ShoppingList, 0)
		if err := cursor.All(ctx, &lists); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"lists": lists})
	}
}

// POST /shopping-list/:id/items
func AppendItems(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /shopping-list/:id/items"

		caller, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req appendItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, ok := fetchOwnedList(ctx, db, c, route, caller.UserID)
		if !ok {
			return
		}

		list.Items = append(list.Items, stampNewItems(req.Items, time.Now())...)

		updatedAt, err := writeListItems(ctx, db, list.ID, list.Items)
		if err != nil {
			log.Println("[SHOPPING] [ERROR] append items failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		list.UpdatedAt = updatedAt

		c.JSON(http.StatusOK, list)
	}
}

// DELETE /shopping-list/:id/items
func RemoveItemAt(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /shopping-list/:id/items"

		caller, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req removeItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, ok := fetchOwnedList(ctx, db, c, route, caller.UserID)
		if !ok {
			return
		}

		remaining, ok := removeItemAt(list.Items, *req.Index)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "index out of range")
			return
		}

		if _, err := writeListItems(ctx, db, list.ID, remaining); err != nil {
			log.Println("[SHOPPING] [ERROR] remove item failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// PATCH /shopping-list/:id
//
// Whole-array overwrite: the caller read the items, modified them (toggled
// purchased, edited an amount) and writes the full result back. Two
// concurrent replaces from the same owner are last-write-wins.
func ReplaceItems(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /shopping-list/:id"

		caller, ok := identityFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req replaceItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, ok := fetchOwnedList(ctx, db, c, route, caller.UserID)
		if !ok {
			return
		}

		now := time.Now()
		items := make([]models.ShoppingItem, 0, len(*req.Items))
		for _, item := range *req.Items {
			addedAt := item.AddedAt
			if addedAt.IsZero() {
				addedAt = now
			}
			items = append(items, models.ShoppingItem{
				IngredientName: strings.TrimSpace(item.IngredientName),
				Amount:         item.Amount,
				Purchased:      item.Purchased,
				AddedAt:        addedAt,
			})
		}

		if _, err := writeListItems(ctx, db, list.ID, items); err != nil {
			log.Println("[SHOPPING] [ERROR] replace items failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
