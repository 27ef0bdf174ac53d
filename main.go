package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/handlers"
	"recipebox/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureRecipeIndexes(db); err != nil {
		log.Printf("recipe index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureFavoriteIndexes(db); err != nil {
		log.Printf("favorite index warning: %v", err)
	}
	if err := database.EnsureShoppingListIndexes(db); err != nil {
		log.Printf("shopping list index warning: %v", err)
	}

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/oauth", handlers.OAuthExchange(db, config.AppEnv.JWTSecret, config.AppEnv.OAuthSharedKey, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/refresh", handlers.Refresh(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	r.GET("/recipes", handlers.GetRecipes(db))
	r.GET("/recipes/tags", handlers.GetRecipeTags(db))
	r.GET("/recipes/:id", handlers.GetRecipe(db))
	r.GET("/recipes/:id/reviews", middleware.OptionalUserAuth(config.AppEnv.JWTSecret), handlers.ListReviews(db))

	r.GET("/categories", handlers.GetCategories(db))
	r.GET("/allergens", handlers.GetAllergens(db))

	authed := r.Group("/")
	authed.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		authed.POST("/recipes", handlers.CreateRecipe(db))
		authed.PUT("/recipes/:id", handlers.UpdateRecipe(db))
		authed.DELETE("/recipes/:id", handlers.DeleteRecipe(db))

		authed.POST("/recipes/:id/reviews", handlers.AddReview(db))
		authed.PUT("/recipes/:id/reviews", handlers.UpdateReview(db))
		authed.DELETE("/recipes/:id/reviews", handlers.DeleteReview(db))

		authed.GET("/favorites", handlers.GetFavorites(db))
		authed.POST("/favorites", handlers.AddFavorite(db))
		authed.DELETE("/favorites", handlers.RemoveFavorite(db))

		authed.POST("/shopping-list", handlers.CreateShoppingList(db))
		authed.GET("/shopping-list", handlers.GetShoppingLists(db))
		authed.POST("/shopping-list/:id/items", handlers.AppendItems(db))
		authed.DELETE("/shopping-list/:id/items", handlers.RemoveItemAt(db))
		authed.PATCH("/shopping-list/:id", handlers.ReplaceItems(db))
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.AppEnv.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-OAuth-Key"},
		AllowCredentials: true,
	})

	addr := ":" + config.AppEnv.Port
	log.Println("listening on", addr)
	if err := http.ListenAndServe(addr, corsHandler.Handler(r)); err != nil {
		log.Fatal(err)
	}
}
