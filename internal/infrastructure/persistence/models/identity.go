package models

import (
	"github.com/styleco/storefront/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName     string `gorm:"type:varchar(200)"`
	AvatarURL    string `gorm:"type:varchar(500)"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		FullName:     m.FullName,
		AvatarURL:    m.AvatarURL,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.FullName = u.FullName
	m.AvatarURL = u.AvatarURL
	m.PasswordHash = u.PasswordHash
	m.IsAdmin = u.IsAdmin
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
