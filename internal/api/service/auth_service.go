package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

const (
	emailSubjectTemplate = "Приветствуем %s"
	emailBodyTemplate    = "Ваш секретный код: %s"

	// "me" is the self-service lookup key and can never be a username.
	reservedUsername = "me"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Claims is the validated content of an access token.
type Claims struct {
	UserID   string
	Username string
	Role     string
}

type AuthService interface {
	// Signup registers a user and mails a confirmation code. Repeating
	// a signup with the exact same username+email pair succeeds again
	// without creating anything or sending more mail.
	Signup(ctx context.Context, username, email string) error
	// IssueToken exchanges (username, confirmation code) for a signed
	// access token. A refresh token is persisted internally.
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	codeStore        repository.ConfirmationCodeStore
	mail             mailer.Mailer
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	codeStore repository.ConfirmationCodeStore,
	mail mailer.Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		codeStore:        codeStore,
		mail:             mail,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) error {
	// Resend shortcut: the exact pair already exists, succeed without a
	// new code so the original one stays valid.
	if _, err := s.userRepo.FindByUsernameAndEmail(ctx, username, email); err == nil {
		return nil
	}

	fe := FieldErrors{}
	if username == reservedUsername {
		fe.Add("username", "this username is reserved")
	} else if !usernamePattern.MatchString(username) {
		fe.Add("username", "may contain only word characters and .@+-")
	} else if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		fe.Add("username", "already in use")
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		fe.Add("email", "already in use")
	}
	if len(fe) > 0 {
		return fe
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	code := uuid.New().String()
	hash, err := auth.HashSecret(code)
	if err != nil {
		return err
	}
	if err := s.codeStore.Save(ctx, username, hash); err != nil {
		return err
	}

	return s.mail.Send(ctx, email,
		fmt.Sprintf(emailSubjectTemplate, username),
		fmt.Sprintf(emailBodyTemplate, code),
	)
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	// The code is only ever compared against the named user's stored
	// hash; a code issued to someone else never authenticates here.
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		auth.DummyCompare(code)
		return "", ErrUserNotFound
	}

	hash, err := s.codeStore.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			auth.DummyCompare(code)
			return "", ErrInvalidCode
		}
		return "", err
	}
	if err := auth.VerifySecret(hash, code); err != nil {
		return "", ErrInvalidCode
	}

	// One-time: a used code cannot be exchanged again.
	if err := s.codeStore.Delete(ctx, username); err != nil {
		return "", err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", err
	}
	if _, err := s.generateRefreshToken(ctx, user); err != nil {
		return "", err
	}
	return accessToken, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
		"type":     "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := mapClaims["user_id"].(string)
	username, _ := mapClaims["username"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: userID, Username: username, Role: role}, nil
}
