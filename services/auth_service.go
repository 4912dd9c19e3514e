package services

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// AuthService handles the Google login exchange and JWT issuance. The rest
// of the system only ever sees the user loaded by middleware.Protected.
type AuthService struct {
	DB        *gorm.DB
	oauth     *oauth2.Config
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		DB: db,
		oauth: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		jwtSecret: []byte(os.Getenv("JWT_SECRET")),
	}
}

type tokenClaims struct {
	TokenType string `json:"typ"` // access | refresh
	jwt.RegisteredClaims
}

func (s *AuthService) signToken(userID, tokenType string, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *AuthService) issueTokenPair(userID string) (access, refresh string, err error) {
	if access, err = s.signToken(userID, "access", accessTokenTTL); err != nil {
		return "", "", err
	}
	if refresh, err = s.signToken(userID, "refresh", refreshTokenTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// GoogleLogin starts the OAuth flow.
func (s *AuthService) GoogleLogin(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		HTTPOnly: true,
		MaxAge:   300,
	})
	return c.Redirect(s.oauth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

type googleUserinfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback finishes the flow: code exchange, userinfo fetch, then
// upsert-by-provider-id. First login creates the user, later logins refresh
// name/avatar.
func (s *AuthService) GoogleCallback(c *fiber.Ctx) error {
	if c.Query("state") == "" || c.Query("state") != c.Cookies("oauth_state") {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "invalid oauth state")
	}
	code := c.Query("code")
	if code == "" {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "missing authorization code")
	}

	token, err := s.oauth.Exchange(c.Context(), code)
	if err != nil {
		log.Printf("[AUTH] code exchange failed: %v", err)
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "google login failed")
	}

	resp, err := s.oauth.Client(c.Context(), token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		log.Printf("[AUTH] userinfo fetch failed: %v", err)
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "google login failed")
	}
	defer resp.Body.Close()

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.ID == "" {
		log.Printf("[AUTH] userinfo decode failed: %v", err)
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "google login failed")
	}

	user, err := s.upsertGoogleUser(info)
	if err != nil {
		log.Printf("[AUTH] user upsert failed: %v", err)
		return utils.Internal(c)
	}

	access, refresh, err := s.issueTokenPair(user.ID)
	if err != nil {
		log.Printf("[AUTH] token signing failed: %v", err)
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user,
	})
}

func (s *AuthService) upsertGoogleUser(info googleUserinfo) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))

	var user models.User
	err := s.DB.Where("google_id = ?", info.ID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:       uuid.NewString(),
			GoogleID: info.ID,
			Email:    email,
			Name:     info.Name,
			Role:     models.RoleUser,
		}
		if info.Picture != "" {
			user.AvatarURL = &info.Picture
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	user.Email = email
	user.Name = info.Name
	if user.AvatarURL == nil && info.Picture != "" {
		user.AvatarURL = &info.Picture
	}
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh rotates the token pair from a valid refresh token.
func (s *AuthService) Refresh(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
		return utils.Error(c, fiber.StatusBadRequest, utils.CodeValidationFailed, "refresh_token is required")
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(body.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid || claims.TokenType != "refresh" {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "invalid refresh token")
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", claims.Subject).Error; err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, utils.CodeUnauthenticated, "invalid refresh token")
	}

	access, refresh, err := s.issueTokenPair(user.ID)
	if err != nil {
		log.Printf("[AUTH] token signing failed: %v", err)
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Me returns the authenticated user's own record.
func (s *AuthService) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
