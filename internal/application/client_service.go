package application

import (
	"fmt"
	"strings"

	"github.com/minvoice/minvoice/internal/domain"
	"go.uber.org/zap"
)

// ClientService manages the client directory used by interactive sessions.
type ClientService struct {
	store domain.ClientStore
	log   *zap.Logger
}

// NewClientService creates a ClientService backed by store.
func NewClientService(store domain.ClientStore, log *zap.Logger) *ClientService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ClientService{store: store, log: log}
}

// List returns every known client in insertion order.
func (s *ClientService) List() (domain.ClientDirectory, error) {
	dir, err := s.store.Load()
	if err != nil {
		return domain.ClientDirectory{}, fmt.Errorf("loading clients: %w", err)
	}
	return dir, nil
}

// Select returns the client at the 1-based display position n.
func (s *ClientService) Select(n int) (domain.Client, error) {
	dir, err := s.List()
	if err != nil {
		return domain.Client{}, err
	}
	return dir.Select(n)
}

// Add appends c to the directory and rewrites it. A blank invoice prefix is
// derived from the client name.
func (s *ClientService) Add(c domain.Client) (domain.Client, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.InvoicePrefix = strings.TrimSpace(c.InvoicePrefix)
	c.Phone = strings.TrimSpace(c.Phone)

	if c.Name == "" {
		return domain.Client{}, &domain.FieldError{Field: "name"}
	}
	if c.Address == "" {
		return domain.Client{}, &domain.FieldError{Field: "address"}
	}
	if c.InvoicePrefix == "" {
		c.InvoicePrefix = domain.SuggestPrefix(c.Name)
	}

	dir, err := s.List()
	if err != nil {
		return domain.Client{}, err
	}
	dir.Clients = append(dir.Clients, c)

	if err := s.store.Save(dir); err != nil {
		return domain.Client{}, fmt.Errorf("saving clients: %w", err)
	}

	s.log.Info("client added", zap.String("name", c.Name), zap.String("prefix", c.InvoicePrefix))
	return c, nil
}
