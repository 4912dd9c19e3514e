package middleware

import (
	"errors"
	"os"
	"strings"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type authClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// resolveUser verifies the bearer token and loads the user it names.
// Returns nil without error when no credential is present.
func resolveUser(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header || raw == "" {
		return nil, errors.New("malformed authorization header")
	}

	claims := &authClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !parsed.Valid || claims.TokenType != "access" {
		return nil, errors.New("invalid access token")
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.Subject).Error; err != nil {
		return nil, errors.New("unknown user")
	}
	return &user, nil
}

// Protected rejects requests without a valid access token and stores the
// user in Locals for services.
func Protected(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, db)
		if err != nil {
			return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "invalid or expired token")
		}
		if user == nil {
			return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "authorization header missing")
		}
		c.Locals("user", user)
		return c.Next()
	}
}

// OptionalUser loads the user when a valid token is sent but lets anonymous
// requests through. Used on public reads that personalize their output.
func OptionalUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := resolveUser(c, db); err == nil && user != nil {
			c.Locals("user", user)
		}
		return c.Next()
	}
}

// RequireRoles gates a route to the listed roles. The hierarchy is expressed
// at the call site: admin routes take (RoleAdmin, RoleSuperadmin).
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := c.Locals("user").(*models.User)
		if user == nil {
			return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "authorization required")
		}
		for _, r := range roles {
			if user.Role == r {
				return c.Next()
			}
		}
		return utils.Error(c, fiber.StatusForbidden, utils.CodeForbidden, "insufficient role")
	}
}
