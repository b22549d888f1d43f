package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Roles recognized by the backend. The CLI's session package carries its own
// copy of this enumeration; the wire format is the plain string.
const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents an admin or faculty account
type User struct {
	BaseModel
	Username     string    `json:"username" gorm:"unique"`
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	Role         string    `json:"role" gorm:"not null;default:faculty"`
	Department   string    `json:"department"`
	Year         string    `json:"year"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Student represents a registered student whose face is enrolled
type Student struct {
	BaseModel
	Name       string `json:"name" gorm:"not null"`
	RollNo     string `json:"roll_no" gorm:"unique;not null"`
	Department string `json:"department" gorm:"not null"`
	Semester   string `json:"semester" gorm:"not null"`
	ImagePath  string `json:"-"`
}

// AttendanceRecord represents one marked attendance entry for a student
type AttendanceRecord struct {
	BaseModel
	StudentID  string    `json:"student_id" gorm:"not null"`
	Subject    string    `json:"subject" gorm:"not null"`
	Course     string    `json:"course"`
	Department string    `json:"department"`
	Year       string    `json:"year"`
	Date       time.Time `json:"date" gorm:"not null"`
	Status     string    `json:"status" gorm:"not null;default:present"`
	MarkedByID string    `json:"marked_by_id" gorm:"not null"`

	// Relationships
	Student  Student `json:"student,omitzero" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	MarkedBy *User   `json:"marked_by,omitempty" gorm:"foreignKey:MarkedByID;references:ID;constraint:OnDelete:SET NULL"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Student{}, &AttendanceRecord{})
}
