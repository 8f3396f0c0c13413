package models

import (
	"github.com/styleco/storefront/internal/domain/content"
)

// HeroSectionModel is the persistence model for the storefront hero banner.
type HeroSectionModel struct {
	BaseModel
	Title               string `gorm:"type:varchar(200);not null"`
	Subtitle            string `gorm:"type:text"`
	BackgroundImageURL  string `gorm:"type:varchar(500)"`
	PrimaryButtonText   string `gorm:"type:varchar(100);not null"`
	PrimaryButtonLink   string `gorm:"type:varchar(500)"`
	SecondaryButtonText string `gorm:"type:varchar(100)"`
	SecondaryButtonLink string `gorm:"type:varchar(500)"`
	IsActive            bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (HeroSectionModel) TableName() string {
	return "hero_sections"
}

// ToDomain converts the persistence model to a domain HeroSection.
func (m *HeroSectionModel) ToDomain() *content.HeroSection {
	return &content.HeroSection{
		BaseEntity:          m.BaseModel.ToDomain(),
		Title:               m.Title,
		Subtitle:            m.Subtitle,
		BackgroundImageURL:  m.BackgroundImageURL,
		PrimaryButtonText:   m.PrimaryButtonText,
		PrimaryButtonLink:   m.PrimaryButtonLink,
		SecondaryButtonText: m.SecondaryButtonText,
		SecondaryButtonLink: m.SecondaryButtonLink,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain HeroSection.
func (m *HeroSectionModel) FromDomain(h *content.HeroSection) {
	m.FromDomainBaseEntity(h.BaseEntity)
	m.Title = h.Title
	m.Subtitle = h.Subtitle
	m.BackgroundImageURL = h.BackgroundImageURL
	m.PrimaryButtonText = h.PrimaryButtonText
	m.PrimaryButtonLink = h.PrimaryButtonLink
	m.SecondaryButtonText = h.SecondaryButtonText
	m.SecondaryButtonLink = h.SecondaryButtonLink
	m.IsActive = h.IsActive
}
