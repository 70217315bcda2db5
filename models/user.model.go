package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Preferences controls which notifications a user receives
type Preferences struct {
	Notifications      bool `bson:"notifications" json:"notifications"`
	EmailNotifications bool `bson:"email_notifications" json:"email_notifications"`
}

// DefaultPreferences returns the preferences a new account starts with
func DefaultPreferences() Preferences {
	return Preferences{Notifications: true, EmailNotifications: true}
}

// User represents a student account
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StudentID    string             `bson:"student_id" json:"student_id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	Hostel       string             `bson:"hostel" json:"hostel"`
	Room         string             `bson:"room" json:"room"`
	Password     string             `bson:"password,omitempty" json:"-"`
	ProfilePic   string             `bson:"profile_pic,omitempty" json:"profile_pic,omitempty"`
	ContactInfo  string             `bson:"contact_info,omitempty" json:"contact_info,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	IsVerified   bool               `bson:"is_verified" json:"is_verified"`
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`
	Rating       float64            `bson:"rating" json:"rating"`
	TotalRatings int                `bson:"total_ratings" json:"total_ratings"`
	Preferences  Preferences        `bson:"preferences" json:"preferences"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// WantsEmail reports whether best-effort emails may be sent to the user
func (u *User) WantsEmail() bool {
	return u != nil && u.Email != "" && u.Preferences.EmailNotifications
}

// Summary returns the display subset of the user attached to other entities
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:           u.ID,
		StudentID:    u.StudentID,
		Name:         u.Name,
		Hostel:       u.Hostel,
		Room:         u.Room,
		ProfilePic:   u.ProfilePic,
		Rating:       u.Rating,
		TotalRatings: u.TotalRatings,
	}
}

// UserSummary is the public view of a user embedded in listings, messages and transactions
type UserSummary struct {
	ID           primitive.ObjectID `json:"id"`
	StudentID    string             `json:"student_id"`
	Name         string             `json:"name"`
	Hostel       string             `json:"hostel,omitempty"`
	Room         string             `json:"room,omitempty"`
	ProfilePic   string             `json:"profile_pic,omitempty"`
	Rating       float64            `json:"rating"`
	TotalRatings int                `json:"total_ratings"`
}

// ProfileUpdate holds the editable profile fields; nil means unchanged
type ProfileUpdate struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Hostel      *string      `json:"hostel,omitempty" validate:"omitempty,max=100"`
	Room        *string      `json:"room,omitempty" validate:"omitempty,max=20"`
	ContactInfo *string      `json:"contact_info,omitempty" validate:"omitempty,max=200"`
	Bio         *string      `json:"bio,omitempty" validate:"omitempty,max=1000"`
	ProfilePic  *string      `json:"profile_pic,omitempty" validate:"omitempty,max=500"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// Apply copies the set fields onto u
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Hostel != nil {
		u.Hostel = *p.Hostel
	}
	if p.Room != nil {
		u.Room = *p.Room
	}
	if p.ContactInfo != nil {
		u.ContactInfo = *p.ContactInfo
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.ProfilePic != nil {
		u.ProfilePic = *p.ProfilePic
	}
	if p.Preferences != nil {
		u.Preferences = *p.Preferences
	}
}

// RatingStats is the seller aggregate computed from rated transactions
type RatingStats struct {
	Average float64
	Count   int
}
