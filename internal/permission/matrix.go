package permission

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Matrix maps a section name to the actions allowed within it.
type Matrix map[string]map[Action]bool

// Full returns a matrix allowing every action on the given sections.
func Full(sections ...string) Matrix {
	m := make(Matrix, len(sections))
	for _, section := range sections {
		m[section] = make(map[Action]bool, len(Actions()))
		for _, a := range Actions() {
			m[section][a] = true
		}
	}

	return m
}

// Allows reports whether the matrix grants action on section.
func (m Matrix) Allows(section string, action Action) bool {
	actions, ok := m[section]
	if !ok {
		return false
	}

	return actions[action]
}

// Sections returns the section names listed in the matrix.
func (m Matrix) Sections() []string {
	out := make([]string, 0, len(m))
	for section := range m {
		out = append(out, section)
	}

	return out
}

// Validate checks section names and actions.
func (m Matrix) Validate() error {
	seen := make(map[string]struct{}, len(m))

	for section, actions := range m {
		name := strings.TrimSpace(section)
		if name == "" {
			return fmt.Errorf("%w: empty section name", ErrInvalidMatrix)
		}

		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: section %q listed twice", ErrInvalidMatrix, name)
		}

		seen[name] = struct{}{}

		for action := range actions {
			if !action.Valid() {
				return fmt.Errorf("%w: section %q: %w: %q", ErrInvalidMatrix, name, ErrUnknownAction, action)
			}
		}
	}

	return nil
}

// Normalize returns a deep copy in which every listed section carries all
// four actions, omitted ones explicitly set to false.
func (m Matrix) Normalize() Matrix {
	out := make(Matrix, len(m))

	for section, actions := range m {
		name := strings.TrimSpace(section)
		row := make(map[Action]bool, len(Actions()))

		for _, a := range Actions() {
			row[a] = actions[a]
		}

		out[name] = row
	}

	return out
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}

	out := make(Matrix, len(m))

	for section, actions := range m {
		row := make(map[Action]bool, len(actions))
		for a, allowed := range actions {
			row[a] = allowed
		}

		out[section] = row
	}

	return out
}

// Union merges matrices so that an action is allowed when any input allows it.
func Union(matrices ...Matrix) Matrix {
	out := make(Matrix)

	for _, m := range matrices {
		for section, actions := range m {
			row, ok := out[section]
			if !ok {
				row = make(map[Action]bool, len(Actions()))
				for _, a := range Actions() {
					row[a] = false
				}

				out[section] = row
			}

			for a, allowed := range actions {
				if allowed {
					row[a] = true
				}
			}
		}
	}

	return out
}

// ParseMatrix decodes the admin wire format, a JSON object of section to
// action to bool. Action names are matched case-insensitively. The result is
// validated and normalized.
func ParseMatrix(data []byte) (Matrix, error) {
	var raw map[string]map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMatrix, err)
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: payload is null", ErrInvalidMatrix)
	}

	m := make(Matrix, len(raw))

	for section, actions := range raw {
		row := make(map[Action]bool, len(actions))

		for name, allowed := range actions {
			a, err := ParseAction(name)
			if err != nil {
				return nil, fmt.Errorf("%w: section %q: %w", ErrInvalidMatrix, section, err)
			}

			if prev, dup := row[a]; dup && prev != allowed {
				return nil, fmt.Errorf("%w: section %q: conflicting values for %q", ErrInvalidMatrix, section, a)
			}

			row[a] = allowed
		}

		m[section] = row
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m.Normalize(), nil
}

// UnmarshalJSON implements json.Unmarshaler using ParseMatrix.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMatrix(data)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Scan implements sql.Scanner.
func (m *Matrix) Scan(value any) error {
	var data []byte

	switch v := value.(type) {
	case nil:
		*m = Matrix{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidMatrix, value)
	}

	return m.UnmarshalJSON(data)
}

// Value implements driver.Valuer.
func (m Matrix) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return string(data), nil
}

// GormDBDataType picks a json column type per dialect.
func (Matrix) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	case "mysql":
		return "json"
	default:
		return "text"
	}
}
