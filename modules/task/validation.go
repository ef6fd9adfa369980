package task

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/ekoc03/pokedex/domain/task"
)

// Field records whether a JSON key was present and whether it held the expected type.
// A key that is absent leaves Set false; null or a value of the wrong type sets Invalid.
type Field[T any] struct {
	Value   T
	Set     bool
	Invalid bool
}

// UnmarshalJSON implements json.Unmarshaler. It never fails so that type
// mismatches surface as validation messages instead of decode errors.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Invalid = true
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		f.Invalid = true
	}
	return nil
}

// Some returns a present, well-typed field.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// TaskPayload is the client-supplied body of a create or update request.
// Any owner field in the body is ignored.
type TaskPayload struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	Status      Field[string] `json:"status"`
	DueDate     Field[string] `json:"dueDate"`
}

// CreateInput is a validated, normalized create request.
type CreateInput struct {
	Title       string
	Description string
	Status      domain.Status
	DueDate     time.Time
	UserID      uint
}

// Patch is a validated partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Status      *domain.Status
	DueDate     *time.Time
}

// Apply merges the patch into t and returns the names of the fields it set.
func (p *Patch) Apply(t *domain.Task) []string {
	var fields []string
	if p.Title != nil {
		t.Title = *p.Title
		fields = append(fields, "title")
	}
	if p.Description != nil {
		t.Description = *p.Description
		fields = append(fields, "description")
	}
	if p.Status != nil {
		t.Status = *p.Status
		fields = append(fields, "status")
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
		fields = append(fields, "dueDate")
	}
	return fields
}

const statusMessage = "Status must be one of: pending, in_progress, done"

// ValidateCreate checks a create payload. ownerID comes from the authenticated caller.
func ValidateCreate(p TaskPayload, ownerID uint) (*CreateInput, error) {
	if !p.Title.Set || p.Title.Invalid {
		return nil, invalid("Title is required and must be a string")
	}
	title, err := checkTitle(p.Title.Value)
	if err != nil {
		return nil, err
	}

	if !p.Description.Set || p.Description.Invalid {
		return nil, invalid("Description is required and must be a string")
	}
	description, err := checkDescription(p.Description.Value)
	if err != nil {
		return nil, err
	}

	status := domain.StatusPending
	if p.Status.Set {
		s, err := checkStatus(p.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	if !p.DueDate.Set {
		return nil, invalid("Due date is required")
	}
	dueDate, err := checkDueDate(p.DueDate)
	if err != nil {
		return nil, err
	}

	if ownerID == 0 {
		return nil, invalid("User ID is required and must be a number")
	}

	return &CreateInput{
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     dueDate,
		UserID:      ownerID,
	}, nil
}

// ValidateUpdate checks a partial update. Every field is optional but at least one must be present.
func ValidateUpdate(p TaskPayload) (*Patch, error) {
	var patch Patch

	if p.Title.Set {
		if p.Title.Invalid {
			return nil, invalid("Title must be a string")
		}
		title, err := checkTitle(p.Title.Value)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	if p.Description.Set {
		if p.Description.Invalid {
			return nil, invalid("Description must be a string")
		}
		description, err := checkDescription(p.Description.Value)
		if err != nil {
			return nil, err
		}
		patch.Description = &description
	}

	if p.Status.Set {
		status, err := checkStatus(p.Status)
		if err != nil {
			return nil, err
		}
		patch.Status = &status
	}

	if p.DueDate.Set {
		dueDate, err := checkDueDate(p.DueDate)
		if err != nil {
			return nil, err
		}
		patch.DueDate = &dueDate
	}

	if !p.Title.Set && !p.Description.Set && !p.Status.Set && !p.DueDate.Set {
		return nil, invalid("At least one field must be provided for update")
	}

	return &patch, nil
}

func checkTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", invalid("Title cannot be empty")
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return "", invalid("Title must be less than 200 characters")
	}
	return title, nil
}

func checkDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if description == "" {
		return "", invalid("Description cannot be empty")
	}
	return description, nil
}

func checkStatus(f Field[string]) (domain.Status, error) {
	status := domain.Status(f.Value)
	if f.Invalid || !status.Valid() {
		return "", invalid(statusMessage)
	}
	return status, nil
}

func checkDueDate(f Field[string]) (time.Time, error) {
	if f.Invalid {
		return time.Time{}, invalid("Invalid due date format")
	}
	t, ok := parseDueDate(f.Value)
	if !ok {
		return time.Time{}, invalid("Invalid due date format")
	}
	return t, nil
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDueDate accepts ISO 8601 timestamps and plain calendar dates (read as UTC midnight).
func parseDueDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
