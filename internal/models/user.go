package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser          Role = "User"
	RoleExpert        Role = "Expert"
	RoleRecruiter     Role = "Recruiter"
	RoleAdministrator Role = "Administrator"
)

// User is the central identity entity. Expert/Recruiter are optional 1:1
// role profiles; a user may hold neither, either or both.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`

	IsActive       bool       `gorm:"default:true" json:"is_active"`
	EmailConfirmed bool       `gorm:"default:false" json:"email_confirmed"`
	BannedAt       *time.Time `gorm:"index" json:"banned_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Expert    *Expert    `gorm:"foreignKey:UserID;references:ID" json:"expert,omitempty"`
	Recruiter *Recruiter `gorm:"foreignKey:UserID;references:ID" json:"recruiter,omitempty"`

	Skills    []Skill    `gorm:"many2many:user_skills" json:"skills,omitempty"`
	Interests []Interest `gorm:"many2many:user_interests" json:"interests,omitempty"`
}

// Expert is the candidate-side profile of a user.
type Expert struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Available bool      `gorm:"default:true" json:"available"`
	Hired     bool      `gorm:"default:false" json:"hired"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Recruiter is the hiring-side profile of a user.
type Recruiter struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	CompanyName string    `json:"company_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Administrator lives in its own table; admin role is derived from the
// existence of a row here, not from a column on users.
type Administrator struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	ProfilePicture string    `json:"profile_picture"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Skill struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
}

type Interest struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
}
