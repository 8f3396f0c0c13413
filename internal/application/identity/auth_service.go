package identity

import (
	"context"
	"errors"

	"github.com/styleco/storefront/internal/domain/identity"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrEmailTaken         = shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Session has expired. Please log in again")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid authentication token")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Session has been revoked. Please log in again")
)

// AuthService handles registration, login and token checks
type AuthService struct {
	userRepo    identity.UserRepository
	tokens      *auth.TokenIssuer
	revocations auth.Revocations
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service. revocations may be nil,
// in which case logout is client-side only.
func NewAuthService(
	userRepo identity.UserRepository,
	tokens *auth.TokenIssuer,
	revocations auth.Revocations,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
	}
}

// Register creates a buyer account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user, err := identity.NewUser(req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Login authenticates a user and returns an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *AuthService) issue(user *identity.User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}
	return &AuthResponse{Token: *token, User: ToUserResponse(user)}, nil
}

// Authenticate validates a bearer token and checks it has not been revoked
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID, claims.Subject, claims.IssuedAtTime())
		if err != nil {
			// fail open
			s.logger.Warn("Token revocation check failed", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return &Principal{
		UserID:   userID,
		Email:    claims.Email,
		IsAdmin:  claims.IsAdmin,
		TokenID:  claims.ID,
		TokenTTL: claims.RemainingTTL(),
	}, nil
}

// Logout revokes the caller's token until it would have expired
func (s *AuthService) Logout(ctx context.Context, p Principal) error {
	s.logger.Info("User logout", zap.String("user_id", p.UserID.String()))
	if s.revocations == nil || p.TokenID == "" || p.TokenTTL <= 0 {
		return nil
	}
	return s.revocations.RevokeToken(ctx, p.TokenID, p.TokenTTL)
}

// Me returns the caller's profile
func (s *AuthService) Me(ctx context.Context, p Principal) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}
