package fields

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DataType enumerates the value types an extraction field can hold.
type DataType string

const (
	DataTypeText    DataType = "text"
	DataTypeNumber  DataType = "number"
	DataTypeDate    DataType = "date"
	DataTypeBoolean DataType = "boolean"
)

// ParseDataType validates a raw data type string.
func ParseDataType(raw string) (DataType, error) {
	switch DataType(strings.ToLower(strings.TrimSpace(raw))) {
	case DataTypeText:
		return DataTypeText, nil
	case DataTypeNumber:
		return DataTypeNumber, nil
	case DataTypeDate:
		return DataTypeDate, nil
	case DataTypeBoolean:
		return DataTypeBoolean, nil
	default:
		return "", fmt.Errorf("%w: unknown data type %q", ErrInvalidInput, raw)
	}
}

// Scope describes where a field applies. A global scope applies everywhere
// in the project; a folder scope applies only inside the listed folders.
type Scope struct {
	folderIDs map[string]struct{}
}

// GlobalScope returns a scope that applies to every location in a project.
func GlobalScope() Scope {
	return Scope{}
}

// ScopedTo returns a scope limited to the given folders. An empty list
// collapses to the global scope.
func ScopedTo(folderIDs []string) Scope {
	set := make(map[string]struct{}, len(folderIDs))
	for _, id := range folderIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	if len(set) == 0 {
		return GlobalScope()
	}
	return Scope{folderIDs: set}
}

// IsGlobal reports whether the scope applies everywhere.
func (s Scope) IsGlobal() bool {
	return len(s.folderIDs) == 0
}

// Contains reports whether the scope names the given folder.
func (s Scope) Contains(folderID string) bool {
	_, ok := s.folderIDs[folderID]
	return ok
}

// FolderIDs returns the scoped folder IDs in sorted order. Global scopes
// return nil.
func (s Scope) FolderIDs() []string {
	if len(s.folderIDs) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.folderIDs))
	for id := range s.folderIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Field is an extraction field defined on a project.
type Field struct {
	ID          string
	ProjectID   string
	UserID      string
	Name        string
	DataType    DataType
	Description string
	Scope       Scope
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
