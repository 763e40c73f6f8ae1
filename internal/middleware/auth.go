// Package middleware provides authentication, logging, tracing, and rate limiting middleware for the application.
package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"askme/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = 24 * time.Hour

var (
	errMissingHeader = errors.New("Authorization header required")
	errHeaderFormat  = errors.New("Invalid authorization header format")
	errInvalidToken  = errors.New("Invalid or expired token")
	errTokenSubject  = errors.New("Invalid user ID in token")
)

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// IssueToken signs an access token whose subject is userID.
func IssueToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// userIDFromHeader validates a "Bearer <token>" header and returns the subject.
func userIDFromHeader(authHeader string) (uint, error) {
	if authHeader == "" {
		return 0, errMissingHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, errHeaderFormat
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidToken
	}

	// "sub" carries the user ID per RFC 7519
	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, errTokenSubject
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil || userIDVal == 0 {
		return 0, errTokenSubject
	}
	return uint(userIDVal), nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	userID, err := userIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	setUserID(c, userID)
	return c.Next()
}

// OptionalAuth sets userID when a valid token is present and never rejects the request.
func OptionalAuth(c *fiber.Ctx) error {
	if userID, err := userIDFromHeader(c.Get("Authorization")); err == nil {
		setUserID(c, userID)
	}
	return c.Next()
}

// setUserID stores the caller in locals and in the user context for the logger.
func setUserID(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}
