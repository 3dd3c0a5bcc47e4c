package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationOTP is a one-time code mailed during signup.
type RegistrationOTP struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:otp_table_email_key"`
	Code      string    `gorm:"column:code;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RegistrationOTP) TableName() string { return "otp_table" }

// PasswordResetOTP is a one-time code mailed on forgot-password.
type PasswordResetOTP struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:forgot_password_otp_email_key"`
	Code      string    `gorm:"column:code;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PasswordResetOTP) TableName() string { return "forgot_password_otp" }

// PendingUser holds signup details while the OTP is outstanding. The row is
// promoted to profiles once the code is verified.
type PendingUser struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:temp_users_email_key"`
	Name         string    `gorm:"column:name;not null"`
	Phone        string    `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PendingUser) TableName() string { return "temp_users" }
