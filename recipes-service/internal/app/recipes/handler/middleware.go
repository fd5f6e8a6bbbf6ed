package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxName   = "name"
)

// JWTClaims структура claims токена внешнего провайдера идентификации
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен в запросах для Gin
type AuthMiddleware struct {
	jwtSecret string
}

// NewAuthMiddleware создает новый middleware для аутентификации
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate требует валидный токен и добавляет данные пользователя в контекст Gin
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "Authorization header required")
			return
		}

		claims, err := m.parse(authHeader)
		if err != nil {
			abortUnauthenticated(c, err.Error())
			return
		}

		setCaller(c, claims)
		c.Next()
	}
}

// OptionalAuthenticate пропускает запросы без токена как анонимные.
// Переданный, но невалидный токен отклоняется
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		claims, err := m.parse(authHeader)
		if err != nil {
			abortUnauthenticated(c, err.Error())
			return
		}

		setCaller(c, claims)
		c.Next()
	}
}

func (m *AuthMiddleware) parse(authHeader string) (*JWTClaims, error) {
	// Проверяем формат "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("Invalid authorization header format")
	}

	token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid or expired token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.UserID == "" {
		return nil, fmt.Errorf("Invalid token claims")
	}

	return claims, nil
}

func setCaller(c *gin.Context, claims *JWTClaims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxName, claims.Name)
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorResponse{
		Error: message,
		Code:  CodeUnauthenticated,
	})
}

// callerFrom возвращает пользователя из контекста. Для анонимного запроса ID пустой
func callerFrom(c *gin.Context) entity.Caller {
	return entity.Caller{
		ID:    c.GetString(ctxUserID),
		Name:  c.GetString(ctxName),
		Email: c.GetString(ctxEmail),
	}
}
