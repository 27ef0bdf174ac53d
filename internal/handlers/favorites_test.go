package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"recipebox/internal/models"
)

func TestResolveFavoriteRecipesKeepsLedgerOrder(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	favorites := []models.Favorite{
		{RecipeID: second, CreatedAt: time.Now()},
		{RecipeID: first, CreatedAt: time.Now().Add(-time.Hour)},
	}
	recipesByID := map[primitive.ObjectID]models.Recipe{
		first:  {ID: first, Title: "Older favorite"},
		second: {ID: second, Title: "Newer favorite"},
	}

	views := resolveFavoriteRecipes(favorites, recipesByID)
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Recipe.Title != "Newer favorite" || views[1].Recipe.Title != "Older favorite" {
		t.Fatalf("ledger order not preserved: %+v", views)
	}
}

func TestResolveFavoriteRecipesSkipsOrphans(t *testing.T) {
	kept := primitive.NewObjectID()
	deleted := primitive.NewObjectID()

	favorites := []models.Favorite{
		{RecipeID: deleted},
		{RecipeID: kept},
	}
	recipesByID := map[primitive.ObjectID]models.Recipe{
		kept: {ID: kept, Title: "Still here"},
	}

	views := resolveFavoriteRecipes(favorites, recipesByID)
	if len(views) != 1 {
		t.Fatalf("expected orphaned favorite to be skipped, got %d views", len(views))
	}
	if views[0].RecipeID != kept {
		t.Fatalf("expected surviving recipe, got %v", views[0].RecipeID)
	}
}

// The add path translates the unique-index conflict into a success-with-notice
// response; that translation hinges on the driver recognizing E11000.
func TestDuplicateKeyErrorIsRecognized(t *testing.T) {
	err := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	if !mongo.IsDuplicateKeyError(err) {
		t.Fatal("expected E11000 write error to be detected as duplicate key")
	}

	other := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 2, Message: "bad value"}},
	}
	if mongo.IsDuplicateKeyError(other) {
		t.Fatal("expected non-11000 write error to not be a duplicate key")
	}
}
