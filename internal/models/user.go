// Package models contains the persisted domain records and the API error envelope.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Roles a user may hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SocialLinks are optional profile links.
type SocialLinks struct {
	Website   string `json:"website"`
	Instagram string `json:"instagram"`
	Youtube   string `json:"youtube"`
}

// UserRating mirrors one of the user's reviews on their own record.
type UserRating struct {
	RecipeID uint `json:"recipe"`
	Rating   int  `json:"rating"`
}

// User is an account in the recipe box.
type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	FullName    string       `gorm:"not null" json:"fullName"`
	Email       string       `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password    string       `gorm:"not null" json:"-"`
	Role        string       `gorm:"default:user;index" json:"role,omitempty"`
	Avatar      *string      `json:"avatar"`
	Bio         string       `gorm:"size:500" json:"bio,omitempty"`
	Location    string       `json:"location,omitempty"`
	SocialLinks SocialLinks  `gorm:"embedded;embeddedPrefix:social_" json:"socialLinks"`
	IsActive    bool         `gorm:"default:true" json:"isActive"`
	LastLogin   time.Time    `json:"lastLogin"`
	Ratings     []UserRating `gorm:"type:text;serializer:json" json:"ratings,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Populated by admin listings and public profiles.
	RecipeCount *int64 `gorm:"-" json:"recipeCount,omitempty"`
	ReviewCount *int64 `gorm:"-" json:"reviewCount,omitempty"`
}

// BeforeSave normalizes identity fields.
func (u *User) BeforeSave(*gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	u.FullName = strings.TrimSpace(u.FullName)
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
