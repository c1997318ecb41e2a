package account

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/loginus-id/api/internal/domain"
	"github.com/loginus-id/api/internal/pkg/contact"
)

// Service answers "does an account exist for this contact, and which
// verification channels can reach it". The account list is a read-only
// fixture; this service never creates or mutates users.
type Service interface {
	Check(contactValue string, typ domain.ContactType) *domain.CheckAccountResult
}

type service struct {
	byPhone map[string]*domain.UserAccount
	byEmail map[string]*domain.UserAccount
}

// NewService builds a directory over the given fixture accounts, indexed
// by normalized phone and email.
func NewService(accounts []domain.UserAccount) Service {
	s := &service{
		byPhone: make(map[string]*domain.UserAccount, len(accounts)),
		byEmail: make(map[string]*domain.UserAccount, len(accounts)),
	}
	for i := range accounts {
		a := &accounts[i]
		if a.Phone != "" {
			s.byPhone[contact.NormalizePhone(a.Phone)] = a
		}
		if a.Email != "" {
			s.byEmail[contact.NormalizeEmail(a.Email)] = a
		}
	}
	return s
}

// LoadFixture reads accounts from a JSON file. An empty path returns the
// compiled-in defaults.
func LoadFixture(path string) ([]domain.UserAccount, error) {
	if path == "" {
		return defaultAccounts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users fixture: %w", err)
	}
	var accounts []domain.UserAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parse users fixture: %w", err)
	}
	return accounts, nil
}

func (s *service) Check(contactValue string, typ domain.ContactType) *domain.CheckAccountResult {
	var acc *domain.UserAccount
	switch typ {
	case domain.ContactPhone:
		acc = s.byPhone[contact.NormalizePhone(contactValue)]
	case domain.ContactEmail:
		acc = s.byEmail[contact.NormalizeEmail(contactValue)]
	}
	if acc == nil {
		// Unknown contacts can still receive an SMS to register.
		return &domain.CheckAccountResult{Exists: false, Methods: []string{domain.MethodSMS}}
	}
	return &domain.CheckAccountResult{
		Exists:  true,
		UserID:  acc.UserID,
		Methods: []string{domain.MethodSMS, domain.MethodCall},
	}
}

func defaultAccounts() []domain.UserAccount {
	return []domain.UserAccount{
		{UserID: "user_1", Name: "Alice Demo", Phone: "+79990001111", Email: "alice@loginus.id"},
		{UserID: "user_2", Name: "Bob Demo", Phone: "+79990002222", Email: "bob@loginus.id"},
	}
}
