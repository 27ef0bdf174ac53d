package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type parsedIdentity struct {
	UserID primitive.ObjectID
	Email  string
	Name   string
}

func parseBearerToken(raw, secret string) (*parsedIdentity, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return nil, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return nil, false
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return &parsedIdentity{UserID: userID, Email: email, Name: name}, true
}

// UserAuth validates user JWT tokens and injects the identity into the
// context. Requests without a valid token are rejected before any handler
// touches the store.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := parseBearerToken(c.GetHeader("Authorization"), secret)
		if !ok {
			log.Println("[AUTH] [ERROR] token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("userId", identity.UserID)
		c.Set("email", identity.Email)
		c.Set("name", identity.Name)
		c.Next()
	}
}

// OptionalUserAuth injects the identity when a valid token is present and
// continues anonymously otherwise. Used by read paths that annotate
// per-viewer fields but never require login.
func OptionalUserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := parseBearerToken(c.GetHeader("Authorization"), secret); ok {
			c.Set("userId", identity.UserID)
			c.Set("email", identity.Email)
			c.Set("name", identity.Name)
		}
		c.Next()
	}
}
