package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"runclub-api/models"
	"runclub-api/repositories"
	"runclub-api/utils"
)

type AuthService struct {
	users      *repositories.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	dummyHash  []byte
	mailer     Mailer
	log        *zap.Logger
	now        func() time.Time
}

type AuthOptions struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthService(db *gorm.DB, opts AuthOptions, mailer Mailer, log *zap.Logger) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 7 * 24 * time.Hour
	}
	log = log.Named("auth")

	// Unknown emails are checked against this hash so they cost as much as a wrong password.
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("runclub-unknown-user"), opts.BcryptCost)
	if err != nil {
		log.Warn("failed to prepare dummy password hash", zap.Error(err))
	}

	return &AuthService{
		users:      repositories.NewUserRepository(db),
		jwtSecret:  []byte(opts.JWTSecret),
		tokenTTL:   opts.TokenTTL,
		bcryptCost: opts.BcryptCost,
		dummyHash:  dummyHash,
		mailer:     mailer,
		log:        log,
		now:        time.Now,
	}
}

// Claims carried by session tokens.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.Suspended {
		return "", nil, ErrAccountSuspended
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return token, user, nil
}

// Register creates a regular user with zeroed stats.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	email := utils.NormalizeEmail(in.Email)
	if !utils.IsValidEmail(email) {
		return "", nil, invalid("invalid email")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", nil, invalid("name is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
		AvgPace:  "0:00",
		Badges:   models.StringSlice{},
		JoinedAt: s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, ErrEmailTaken
		}
		s.log.Error("create user", zap.Error(err))
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	go func(u models.User) {
		if err := s.mailer.SendWelcome(u); err != nil {
			s.log.Warn("welcome email failed", zap.String("user_id", u.ID), zap.Error(err))
		}
	}(*user)

	return token, user, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate validates a token against the current user record. Suspended
// users are rejected and the role reflects any change since the token was issued.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Suspended {
		return nil, ErrAccountSuspended
	}
	claims.Role = user.Role
	return claims, nil
}
