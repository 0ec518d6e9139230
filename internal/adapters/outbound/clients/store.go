package clients

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minvoice/minvoice/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the client directory file looked up in the working directory.
const DefaultFile = "client_data.yml"

// FileStore implements domain.ClientStore using a YAML file.
type FileStore struct {
	path string
}

func New(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path}
}

// Path returns the file backing the store.
func (s *FileStore) Path() string { return s.path }

// record accepts both the current keys and the to_* keys written by older
// versions of the tool.
type record struct {
	Name          string `yaml:"name"`
	InvoicePrefix string `yaml:"invoice_prefix"`
	Address       string `yaml:"address"`
	Phone         string `yaml:"phone"`

	LegacyName    string `yaml:"to_name"`
	LegacyPrefix  string `yaml:"to_prefix"`
	LegacyAddress string `yaml:"to_address"`
	LegacyPhone   string `yaml:"to_phone"`
}

func (r record) client() domain.Client {
	pick := func(v, legacy string) string {
		if v != "" {
			return v
		}
		return legacy
	}
	return domain.Client{
		Name:          pick(r.Name, r.LegacyName),
		InvoicePrefix: pick(r.InvoicePrefix, r.LegacyPrefix),
		Address:       pick(r.Address, r.LegacyAddress),
		Phone:         pick(r.Phone, r.LegacyPhone),
	}
}

// Load returns the directory, or an empty one when the file does not exist.
func (s *FileStore) Load() (domain.ClientDirectory, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ClientDirectory{}, nil
		}
		return domain.ClientDirectory{}, err
	}

	var raw struct {
		Clients []record `yaml:"clients"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.ClientDirectory{}, fmt.Errorf("parsing %s: %w", filepath.Base(s.path), err)
	}

	dir := domain.ClientDirectory{Clients: make([]domain.Client, 0, len(raw.Clients))}
	for _, r := range raw.Clients {
		dir.Clients = append(dir.Clients, r.client())
	}
	return dir, nil
}

// Save rewrites the whole file with dir.
func (s *FileStore) Save(dir domain.ClientDirectory) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	if dir.Clients == nil {
		dir.Clients = []domain.Client{}
	}
	data, err := yaml.Marshal(dir)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}
