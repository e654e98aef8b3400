package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthMiddleware resolves the calling user. A Bearer token is verified
// against JWT_SECRET and its user_id claim wins; otherwise the
// X-User-Id header set by the gateway is trusted. Requests carrying
// neither are rejected.
func AuthMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
		}
		userIdStr, _ := claims["user_id"].(string)
		userId, err := uuid.Parse(userIdStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user id claim"})
		}

		ctx.Locals("user_id", userId)
		return ctx.Next()
	}

	if header := ctx.Get("X-User-Id"); header != "" {
		userId, err := uuid.Parse(header)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user id header"})
		}
		ctx.Locals("user_id", userId)
		return ctx.Next()
	}

	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing credentials"})
}

// UserId reads the authenticated user set by AuthMiddleware.
func UserId(ctx *fiber.Ctx) uuid.UUID {
	userId, _ := ctx.Locals("user_id").(uuid.UUID)
	return userId
}
