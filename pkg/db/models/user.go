package models

import "time"

// User is a registered grower account.
type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	Username     string     `gorm:"type:varchar(80);not null;uniqueIndex:users_username_key"`
	Email        string     `gorm:"type:varchar(120);not null;uniqueIndex:users_email_key"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    *string    `gorm:"column:first_name"`
	LastName     *string    `gorm:"column:last_name"`
	Location     *string    `gorm:"column:location"`
	Phone        *string    `gorm:"column:phone"`
	CropType     *string    `gorm:"column:crop_type"`
	FieldArea    *float64   `gorm:"column:field_area"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
