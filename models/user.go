package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	ViewGrid = "grid"
	ViewList = "list"
)

// Preferences holds presentation settings stored with the profile.
type Preferences struct {
	Theme       string `json:"theme"`
	DefaultView string `json:"default_view"`
}

// DefaultPreferences are written when a profile is first created.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, DefaultView: ViewGrid}
}

// Value implements driver.Valuer interface
func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface
func (p *Preferences) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return nil
}

// User is both the account and the profile document of a person.
// FavoriteCountries is NULL until the favorite list is first written.
type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email             string         `gorm:"type:varchar(255);not null;unique;index" json:"email"`
	PasswordHash      string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName       string         `gorm:"type:varchar(150)" json:"display_name"`
	Preferences       Preferences    `gorm:"type:jsonb;default:'{}'" json:"preferences"`
	FavoriteCountries pq.StringArray `gorm:"type:text[]" json:"favorite_countries"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for User model
func (*User) TableName() string {
	return "users"
}

// BeforeCreate sets up the model before creation
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetPassword hashes and sets the user password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the provided password against the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Identity returns the public identity of the user.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

// Profile returns the document view of the user.
func (u *User) Profile() *Profile {
	var favorites []string
	if u.FavoriteCountries != nil {
		favorites = append([]string{}, u.FavoriteCountries...)
	}
	return &Profile{
		ID:                u.ID,
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		Preferences:       u.Preferences,
		FavoriteCountries: favorites,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// Validate performs validation on the user model
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.PasswordHash == "" {
		return ErrInvalidPassword
	}
	for _, code := range u.FavoriteCountries {
		if !IsCountryCode(code) {
			return ErrInvalidCountryCode
		}
	}
	return nil
}

// Profile is the per-user document exchanged with clients. A nil
// FavoriteCountries means the list was never written.
type Profile struct {
	ID                uuid.UUID   `json:"id"`
	Email             string      `json:"email"`
	DisplayName       string      `json:"display_name"`
	Preferences       Preferences `json:"preferences"`
	FavoriteCountries []string    `json:"favorite_countries"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// NormalizeFavorites upper-cases codes and drops repeats, keeping the first
// occurrence of each.
func NormalizeFavorites(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = NormalizeCode(c)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
