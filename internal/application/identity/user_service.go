package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/identity"
	"github.com/styleco/storefront/internal/domain/shared"
	"github.com/styleco/storefront/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles admin user management
type UserService struct {
	userRepo    identity.UserRepository
	revocations auth.Revocations
	tokenTTL    time.Duration
	logger      *zap.Logger
}

// NewUserService creates a new UserService. tokenTTL is the access token
// lifetime; existing tokens of a user whose admin flag changes are revoked
// for that long.
func NewUserService(userRepo identity.UserRepository, revocations auth.Revocations, tokenTTL time.Duration, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:    userRepo,
		revocations: revocations,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// List returns users newest first
func (s *UserService) List(ctx context.Context, q UserListQuery) (*shared.Paginated[UserResponse], error) {
	page, size := shared.NormalizePage(q.Page, q.PageSize, shared.DefaultPageSize)
	users, total, err := s.userRepo.FindAll(ctx, shared.Filter{
		Page:     page,
		PageSize: size,
		Search:   q.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
	})
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	result := shared.NewPaginated(items, total, page, size)
	return &result, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// SetAdmin changes another user's admin flag. The caller cannot change their own.
func (s *UserService) SetAdmin(ctx context.Context, actorID, userID uuid.UUID, admin bool) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	changed := user.IsAdmin != admin
	if err := user.SetAdmin(actorID, admin); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if changed && s.revocations != nil {
		// outstanding tokens still carry the old is_admin claim
		if err := s.revocations.RevokeUser(ctx, user.ID.String(), s.tokenTTL); err != nil {
			s.logger.Warn("Failed to revoke tokens after admin change",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}
	s.logger.Info("User admin flag changed",
		zap.String("user_id", user.ID.String()),
		zap.String("actor_id", actorID.String()),
		zap.Bool("is_admin", admin))

	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile edits full name and avatar
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FullName, req.AvatarURL); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return shared.NewDomainError("CANNOT_MODIFY_SELF", "You cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	if s.revocations != nil {
		if err := s.revocations.RevokeUser(ctx, userID.String(), s.tokenTTL); err != nil {
			s.logger.Warn("Failed to revoke tokens of deleted user", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return nil
}

// Count returns the number of users
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
