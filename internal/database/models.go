package database

import (
	"gorm.io/gorm"
)

// User is an account that owns resumes. The raw password never touches
// storage; only the bcrypt hash is persisted.
type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Resumes      []Resume `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume holds the structured content a user authors. Template names the
// rendering template and may be empty; Filename is carried for uploads but
// unused by the current flows.
type Resume struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null"`
	Name       string `gorm:"size:255"`
	Email      string `gorm:"size:255"`
	Phone      string `gorm:"size:64"`
	Address    string `gorm:"size:512"`
	Education  string
	Experience string
	Skills     string
	Template   string `gorm:"size:64"`
	About      string
	Filename   string `gorm:"size:255"`
}
