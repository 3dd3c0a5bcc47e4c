package registration

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
)

// Repository encapsulates account persistence across the pending and
// verified tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a registration repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertPendingUser stores signup details, replacing any prior attempt for
// the same email.
func (r *Repository) UpsertPendingUser(ctx context.Context, pending *models.PendingUser) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "password_hash", "created_at"}),
		}).
		Create(pending).
		Error
}

// UpsertRegistrationOTP stores the signup code, replacing any outstanding one.
func (r *Repository) UpsertRegistrationOTP(ctx context.Context, otp *models.RegistrationOTP) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
		}).
		Create(otp).
		Error
}

// FindRegistrationOTP loads the outstanding signup code for an email.
func (r *Repository) FindRegistrationOTP(ctx context.Context, email string) (*models.RegistrationOTP, error) {
	var otp models.RegistrationOTP
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

// FindPendingUser loads the unverified signup details for an email.
func (r *Repository) FindPendingUser(ctx context.Context, email string) (*models.PendingUser, error) {
	var pending models.PendingUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&pending).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

// PromotePendingUser creates the profile and clears the signup artifacts in
// one transaction.
func (r *Repository) PromotePendingUser(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", profile.Email).Delete(&models.PendingUser{}).Error; err != nil {
			return err
		}
		return tx.Where("email = ?", profile.Email).Delete(&models.RegistrationOTP{}).Error
	})
}

// FindProfileByEmail loads a verified account.
func (r *Repository) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertPasswordResetOTP stores the reset code, replacing any outstanding one.
func (r *Repository) UpsertPasswordResetOTP(ctx context.Context, otp *models.PasswordResetOTP) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
		}).
		Create(otp).
		Error
}

// FindPasswordResetOTP loads the outstanding reset code for an email.
func (r *Repository) FindPasswordResetOTP(ctx context.Context, email string) (*models.PasswordResetOTP, error) {
	var otp models.PasswordResetOTP
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

// UpdatePassword replaces the stored hash and clears the reset code in one
// transaction.
func (r *Repository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Profile{}).Where("email = ?", email).Update("password_hash", passwordHash)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("email = ?", email).Delete(&models.PasswordResetOTP{}).Error
	})
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
