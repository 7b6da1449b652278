package ideas

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/startupidea/internal/media"
	"github.com/angelmondragon/startupidea/pkg/models"
)

type Idea = models.Idea

// State is the snapshot published to binders.
type State struct {
	Ideas     []Idea `json:"ideas"`
	Uploading bool   `json:"uploading"`
}

// IsOwner reports whether the signed-in email owns idea. Ownership is a client-side
// convention; the backend enforces its own policies.
func IsOwner(idea Idea, email string) bool {
	return idea.OwnedBy(email)
}

// SubmitInput creates a new idea. Logo is optional and is closed by the store.
type SubmitInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Email       string `validate:"required,email"`
	Phone       string
	Logo        *media.Logo `validate:"-"`
}

// UpdateInput rewrites title, description and phone of an existing idea. Email is
// accepted for symmetry with the form but never written.
type UpdateInput struct {
	ID          string `validate:"required"`
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Email       string
	Phone       string
	Logo        *media.Logo `validate:"-"`
}

var ErrInvalidInput = errors.New("invalid idea input")

// InputError lists the fields that failed validation.
type InputError struct {
	Fields map[string]string
}

func (e *InputError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, ", "))
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}
