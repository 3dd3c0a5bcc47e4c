package contact

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
)

// Repository encapsulates contact form persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contact repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *Repository) List(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.ContactMessage
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type contactRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	List(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

// Input is one contact form submission.
type Input struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=4000"`
}

// MessageDTO is the admin projection of a stored submission.
type MessageDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Service stores contact form submissions and lists them for admins.
type Service interface {
	Submit(ctx context.Context, input Input) error
	List(ctx context.Context, limit int) ([]MessageDTO, error)
}

type service struct {
	repo contactRepository
}

// NewService builds a contact service over the given repository.
func NewService(repo contactRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, input Input) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	body := strings.TrimSpace(input.Message)
	if name == "" || email == "" || body == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, email and message are required")
	}

	message := &models.ContactMessage{Name: name, Email: email, Message: body}
	if err := s.repo.Create(ctx, message); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store contact message")
	}
	return nil
}

func (s *service) List(ctx context.Context, limit int) ([]MessageDTO, error) {
	rows, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact messages")
	}
	items := make([]MessageDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, MessageDTO{
			ID:        row.ID,
			Name:      row.Name,
			Email:     row.Email,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}
