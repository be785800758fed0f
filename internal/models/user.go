package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// MinimumAge is the youngest age allowed on the platform.
const MinimumAge = 18

// Preferences holds a user's partner-discovery settings.
// Embedded into the users table with a pref_ column prefix.
type Preferences struct {
	MinAge        int     `gorm:"not null;default:18"`
	MaxAge        int     `gorm:"not null;default:99"`
	MaxDistanceKm float64 `gorm:"not null;default:50"`
	ShowMe        bool    `gorm:"not null;default:true"`

	// Genders is a comma-separated list of accepted genders.
	// Empty means no gender filter.
	Genders string `gorm:"size:64"`
}

// AcceptedGenders returns the gender filter as a slice, nil when unset.
func (p Preferences) AcceptedGenders() []string {
	if strings.TrimSpace(p.Genders) == "" {
		return nil
	}
	parts := strings.Split(p.Genders, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if g := strings.TrimSpace(part); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// Accepts reports whether the given gender passes the filter.
func (p Preferences) Accepts(gender string) bool {
	accepted := p.AcceptedGenders()
	if len(accepted) == 0 {
		return true
	}
	for _, g := range accepted {
		if strings.EqualFold(g, gender) {
			return true
		}
	}
	return false
}

// User represents a user in the system.
type User struct {
	gorm.Model
	Nickname     string    `gorm:"size:255;unique;not null"`
	Email        string    `gorm:"size:255;unique;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:50;not null;default:'user';index"`
	Gender       string    `gorm:"size:16;not null"`
	BirthDate    time.Time `gorm:"not null"`
	Bio          string

	// Last reported location in degrees.
	Lat float64
	Lon float64

	Interests   []*Interest `gorm:"many2many:user_interests;"`
	Preferences Preferences `gorm:"embedded;embeddedPrefix:pref_"`
}

// AgeAt returns the user's age in whole years at the given time.
func (u *User) AgeAt(now time.Time) int {
	age := now.Year() - u.BirthDate.Year()
	// Birthday not reached yet this year.
	if now.YearDay() < u.BirthDate.YearDay() {
		age--
	}
	return age
}

// Age returns the user's current age in whole years.
func (u *User) Age() int {
	return u.AgeAt(time.Now())
}

// InterestNames returns the user's interests as a plain string slice.
func (u *User) InterestNames() []string {
	names := make([]string, 0, len(u.Interests))
	for _, in := range u.Interests {
		if in != nil {
			names = append(names, in.Name)
		}
	}
	return names
}
