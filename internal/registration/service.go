package registration

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/auth"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/auth/session"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/security"
)

const otpLength = 6

type accountRepository interface {
	UpsertPendingUser(ctx context.Context, pending *models.PendingUser) error
	UpsertRegistrationOTP(ctx context.Context, otp *models.RegistrationOTP) error
	FindRegistrationOTP(ctx context.Context, email string) (*models.RegistrationOTP, error)
	FindPendingUser(ctx context.Context, email string) (*models.PendingUser, error)
	PromotePendingUser(ctx context.Context, profile *models.Profile) error
	FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpsertPasswordResetOTP(ctx context.Context, otp *models.PasswordResetOTP) error
	FindPasswordResetOTP(ctx context.Context, email string) (*models.PasswordResetOTP, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type otpMailer interface {
	SendRegistrationOTP(ctx context.Context, email, code string) error
	SendPasswordResetOTP(ctx context.Context, email, code string) error
}

type otpThrottle interface {
	OTPSendKey(email string) string
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// SignupInput carries the details collected on the registration form.
type SignupInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=32"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// TokenPairDTO is the login or refresh response.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

// Service exposes OTP signup, login, token refresh and password recovery.
type Service interface {
	StartRegistration(ctx context.Context, input SignupInput) error
	VerifyRegistration(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*TokenPairDTO, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPairDTO, error)
	Logout(ctx context.Context, accessID string) error
	StartPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// ServiceParams groups dependencies for the registration service.
type ServiceParams struct {
	Repo      accountRepository
	Mailer    otpMailer
	Throttle  otpThrottle
	Sessions  sessionManager
	JWT       config.JWTConfig
	Password  config.PasswordConfig
	OTP       config.RegistrationConfig
	RateLimit config.OTPRateLimitConfig
	Logger    *logger.Logger
}

type service struct {
	repo     accountRepository
	mailer   otpMailer
	throttle otpThrottle
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	otpCfg   config.RegistrationConfig
	rateCfg  config.OTPRateLimitConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a registration service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account repo is required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mailer is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	return &service{
		repo:     params.Repo,
		mailer:   params.Mailer,
		throttle: params.Throttle,
		sessions: params.Sessions,
		jwtCfg:   params.JWT,
		pwCfg:    params.Password,
		otpCfg:   params.OTP,
		rateCfg:  params.RateLimit,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// StartRegistration stores the signup attempt and mails a one-time code. A
// repeated attempt for the same email replaces the prior code.
func (s *service) StartRegistration(ctx context.Context, input SignupInput) error {
	email := normalizeEmail(input.Email)
	if email == "" || strings.TrimSpace(input.Name) == "" || input.Password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}

	if _, err := s.repo.FindProfileByEmail(ctx, email); err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	} else if !IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	if err := s.allowOTPSend(ctx, email); err != nil {
		return err
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	code, err := security.GenerateOTP(otpLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}

	pending := &models.PendingUser{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
	}
	if err := s.repo.UpsertPendingUser(ctx, pending); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store pending user")
	}

	otp := &models.RegistrationOTP{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpCfg.OTPTTL),
	}
	if err := s.repo.UpsertRegistrationOTP(ctx, otp); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}

	if err := s.mailer.SendRegistrationOTP(ctx, email, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send otp email")
	}
	return nil
}

// VerifyRegistration checks the code and promotes the pending signup to a
// verified profile.
func (s *service) VerifyRegistration(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and code are required")
	}

	otp, err := s.repo.FindRegistrationOTP(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load otp")
	}
	if s.now().After(otp.ExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(strings.TrimSpace(code))) != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}

	pending, err := s.repo.FindPendingUser(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending user")
	}

	profile := &models.Profile{
		Email:        pending.Email,
		Name:         pending.Name,
		Phone:        pending.Phone,
		PasswordHash: pending.PasswordHash,
		Role:         models.RoleUser,
	}
	if err := s.repo.PromotePendingUser(ctx, profile); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote pending user")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"email": email}), "registration verified")
	}
	return nil
}

// Login verifies the password and issues an access and refresh token pair.
func (s *service) Login(ctx context.Context, email, password string) (*TokenPairDTO, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	profile, err := s.repo.FindProfileByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	ok, err := security.VerifyPassword(password, profile.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueTokens(ctx, profile)
}

// Refresh rotates the refresh token and mints a fresh access token. The old
// access token may already be expired.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPairDTO, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if pkgErrIsInvalidRefresh(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPairDTO{
		AccessToken:  token,
		RefreshToken: newRefresh,
		UserID:       claims.UserID.String(),
		Role:         claims.Role,
	}, nil
}

// Logout revokes the refresh session tied to the access token id.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session identity missing")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// StartPasswordReset mails a one-time reset code to a registered email.
// Unknown emails get the same nil response so the endpoint does not leak
// which accounts exist.
func (s *service) StartPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.repo.FindProfileByEmail(ctx, email); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	if err := s.allowOTPSend(ctx, email); err != nil {
		return err
	}

	code, err := security.GenerateOTP(otpLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	otp := &models.PasswordResetOTP{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.otpCfg.OTPTTL),
	}
	if err := s.repo.UpsertPasswordResetOTP(ctx, otp); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset otp")
	}

	if err := s.mailer.SendPasswordResetOTP(ctx, email, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send reset email")
	}
	return nil
}

// ResetPassword verifies the reset code and replaces the stored hash.
func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(code) == "" || newPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email, code and password are required")
	}

	otp, err := s.repo.FindPasswordResetOTP(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset otp")
	}
	if s.now().After(otp.ExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(strings.TrimSpace(code))) != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}

	hash, err := security.HashPassword(newPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, email, hash); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, profile *models.Profile) (*TokenPairDTO, error) {
	accessID := session.NewAccessID()
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   profile.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &TokenPairDTO{
		AccessToken:  token,
		RefreshToken: refresh,
		UserID:       profile.ID.String(),
		Name:         profile.Name,
		Role:         profile.Role,
	}, nil
}

func (s *service) allowOTPSend(ctx context.Context, email string) error {
	if s.throttle == nil || s.rateCfg.EmailLimit <= 0 {
		return nil
	}
	count, err := s.throttle.IncrWithTTL(ctx, s.throttle.OTPSendKey(email), s.rateCfg.Window)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "otp throttle")
	}
	if count > int64(s.rateCfg.EmailLimit) {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many codes requested, try again later")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func pkgErrIsInvalidRefresh(err error) bool {
	return errors.Is(err, session.ErrInvalidRefreshToken)
}
