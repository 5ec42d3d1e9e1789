package bootstrap

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultDocument []byte

// DefaultAdminUsername is the administrator created by the default document.
const DefaultAdminUsername = "admin"

var validate = validator.New()

// Document describes RBAC data to create. Entries refer to each other by
// name, and anything already present in the database is left alone.
type Document struct {
	Modules []ModuleSpec `yaml:"modules" validate:"dive"`
	Roles   []RoleSpec   `yaml:"roles" validate:"dive"`
	Groups  []GroupSpec  `yaml:"groups" validate:"dive"`
	Users   []UserSpec   `yaml:"users" validate:"dive"`
}

type ModuleSpec struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Actions     []string `yaml:"actions" validate:"dive,required"`
}

// Grant names a set of actions on one module.
type Grant struct {
	Module  string   `yaml:"module" validate:"required"`
	Actions []string `yaml:"actions" validate:"required,min=1,dive,required"`
}

type RoleSpec struct {
	Name        string  `yaml:"name" validate:"required"`
	Description string  `yaml:"description"`
	Permissions []Grant `yaml:"permissions" validate:"dive"`
}

type GroupSpec struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Roles       []string `yaml:"roles" validate:"dive,required"`
}

type UserSpec struct {
	Username string   `yaml:"username" validate:"required"`
	Password string   `yaml:"password" validate:"required"`
	Groups   []string `yaml:"groups" validate:"dive,required"`
}

// Parse decodes and validates a document. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("failed to parse bootstrap document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load parses the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bootstrap document: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Default returns the built-in seed document. A non-empty adminPassword
// replaces the password of the default administrator.
func Default(adminPassword string) (*Document, error) {
	doc, err := Parse(bytes.NewReader(defaultDocument))
	if err != nil {
		return nil, err
	}
	if adminPassword != "" {
		for i := range doc.Users {
			if doc.Users[i].Username == DefaultAdminUsername {
				doc.Users[i].Password = adminPassword
			}
		}
	}
	return doc, nil
}

// Validate checks required fields.
func (d *Document) Validate() error {
	err := validate.Struct(d)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid bootstrap document: %s", strings.Join(fields, ", "))
	}
	return err
}
