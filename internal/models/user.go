package models

import "time"

// Roles recognised by the gradebook.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User is a local credential record. StudentID links student accounts to
// their grade records; it stays empty for teachers.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Role         string    `gorm:"size:16;not null" json:"role"`
	StudentID    string    `gorm:"size:32" json:"student_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
