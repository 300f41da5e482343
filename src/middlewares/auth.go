package middlewares

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"travl/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// NewAuthMiddleware accepts requests without credentials. A bearer token, when present, must be valid.
// With an empty secret every bearer token is refused.
func NewAuthMiddleware(secret []byte) gin.HandlerFunc {
	if len(secret) == 0 {
		log.Println("[Auth] JWT secret is not set, bearer tokens will be rejected")
	}
	return func(ctx *gin.Context) {
		bearerToken := ctx.Request.Header.Get("Authorization")
		if bearerToken == "" {
			ctx.Next()
			return
		}
		reqToken, ok := strings.CutPrefix(bearerToken, "Bearer ")
		if !ok || reqToken == "" || len(secret) == 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		claims, err := ParseToken(secret, reqToken)
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		ctx.Set("uid", claims.Subject)
		ctx.Set("email", claims.Email)
		ctx.Next()
	}
}

// ActingUser is the authenticated uid, or "anonymous" for requests without a token.
func ActingUser(ctx *gin.Context) string {
	if uid := ctx.GetString("uid"); uid != "" {
		return uid
	}
	return "anonymous"
}

func ParseToken(secret []byte, reqToken string) (*types.Claims, error) {
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func GenerateToken(secret []byte, uid, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
