package auth

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/school-payments/internal"
	usermodel "github.com/frahmantamala/school-payments/internal/core/datamodel/user"
)

// UserRepository persists dashboard users. GetByEmail returns (nil, nil)
// when no user exists so the caller can distinguish absence from a failed
// store.
type UserRepository interface {
	Create(u *usermodel.User) error
	GetByEmail(email string) (*usermodel.User, error)
	GetByID(id int64) (*usermodel.User, error)
}

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserDTO, *AuthTokens, error)
	Login(ctx context.Context, dto LoginDTO) (*UserDTO, *AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	CurrentUser(ctx context.Context, userID int64) (*UserDTO, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Service struct {
	users      UserRepository
	tokens     *TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, tokens *TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*UserDTO, *AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, nil, err
	}

	existing, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to register user", err)
	}
	if existing != nil {
		return nil, nil, internal.NewConflictError("user with this email already exists", internal.ErrCodeUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to register user", err)
	}

	u := &usermodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(u); err != nil {
		s.logger.Error("failed to persist user", "error", err, "email", dto.Email)
		return nil, nil, internal.NewInternalError("failed to register user", err)
	}

	tokens, err := s.tokens.GenerateTokenPair(u.ID, u.Email)
	if err != nil {
		s.logger.Error("failed to mint tokens after registration", "error", err, "user_id", u.ID)
		return nil, nil, internal.NewInternalError("failed to register user", err)
	}

	return toUserDTO(u), tokens, nil
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*UserDTO, *AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, nil, err
	}

	u, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to authenticate", err)
	}
	if u == nil {
		return nil, nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, nil, internal.ErrInvalidCredentials
	}

	tokens, err := s.tokens.GenerateTokenPair(u.ID, u.Email)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to authenticate", err)
	}

	return toUserDTO(u), tokens, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	// Re-read the user so a deleted account cannot keep refreshing.
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to refresh tokens", err)
	}
	if u == nil {
		return nil, internal.ErrInvalidToken
	}

	tokens, err := s.tokens.GenerateTokenPair(u.ID, u.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to refresh tokens", err)
	}
	return tokens, nil
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*UserDTO, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrInvalidToken
	}
	return toUserDTO(u), nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func toUserDTO(u *usermodel.User) *UserDTO {
	return &UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
