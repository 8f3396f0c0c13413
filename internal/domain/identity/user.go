package identity

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a storefront account. IsAdmin gates every admin operation.
type User struct {
	shared.BaseEntity
	Email        string
	FullName     string
	AvatarURL    string
	PasswordHash string
	IsAdmin      bool
}

// NewUser registers a buyer account
func NewUser(email, password, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := u.UpdateProfile(fullName, ""); err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UpdateProfile sets full name and avatar URL
func (u *User) UpdateProfile(fullName, avatarURL string) error {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) > 200 {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot exceed 200 characters")
	}
	avatarURL = strings.TrimSpace(avatarURL)
	if len(avatarURL) > 500 {
		return shared.NewDomainError("INVALID_AVATAR_URL", "Avatar URL cannot exceed 500 characters")
	}
	u.FullName = fullName
	u.AvatarURL = avatarURL
	u.Touch()
	return nil
}

// SetAdmin grants or revokes admin access. actorID is the admin making the
// change; nobody may change their own flag.
func (u *User) SetAdmin(actorID uuid.UUID, admin bool) error {
	if actorID == u.ID {
		return shared.NewDomainError("CANNOT_MODIFY_SELF", "You cannot change your own admin status")
	}
	u.IsAdmin = admin
	u.Touch()
	return nil
}

// DisplayName returns the full name or, failing that, the email
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

// UserRepository defines persistence for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
