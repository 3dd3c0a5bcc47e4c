package contact

import (
	"context"
	"testing"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
)

type stubContactRepo struct {
	created []*models.ContactMessage
	rows    []models.ContactMessage
}

func (s *stubContactRepo) Create(ctx context.Context, message *models.ContactMessage) error {
	s.created = append(s.created, message)
	return nil
}

func (s *stubContactRepo) List(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	return s.rows, nil
}

func TestSubmitTrimsAndStores(t *testing.T) {
	repo := &stubContactRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := Input{Name: "  Ahmed ", Email: " ahmed@example.com ", Message: " Is this phone PTA approved? "}
	if err := svc.Submit(context.Background(), input); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one stored message")
	}
	stored := repo.created[0]
	if stored.Name != "Ahmed" || stored.Email != "ahmed@example.com" || stored.Message != "Is this phone PTA approved?" {
		t.Fatalf("fields were not trimmed: %+v", stored)
	}
}

func TestSubmitRejectsBlankFields(t *testing.T) {
	svc, err := NewService(&stubContactRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	err = svc.Submit(context.Background(), Input{Name: "Ahmed", Email: "   ", Message: "hello"})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListMapsRows(t *testing.T) {
	repo := &stubContactRepo{rows: []models.ContactMessage{
		{ID: 1, Name: "A", Email: "a@example.com", Message: "m1"},
		{ID: 2, Name: "B", Email: "b@example.com", Message: "m2"},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	items, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 || items[1].Email != "b@example.com" {
		t.Fatalf("unexpected items %+v", items)
	}
}
