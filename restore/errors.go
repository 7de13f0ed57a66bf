package restore

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is
var (
	ErrUnsupportedCategory = errors.New("unsupported category")
	ErrMalformedStructure  = errors.New("malformed structure")
	ErrCategoryDependency  = errors.New("category dependency")
)

// UnsupportedCategoryError lists requested categories which are not in
// the registry. The whole request is refused.
type UnsupportedCategoryError struct {
	Categories []string
}

func (e *UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("unsupported categories: %s (supported: %s)",
		strings.Join(e.Categories, ", "), strings.Join(Supported(), ", "))
}

func (e *UnsupportedCategoryError) Is(target error) bool { return target == ErrUnsupportedCategory }

// MalformedStructureError means a document cannot give us a structure
// to work with. Source is "edited" or "reference".
type MalformedStructureError struct {
	Source string
	Reason string
	Err    error
}

func (e *MalformedStructureError) Error() string {
	return e.Source + " file " + e.Reason
}

func (e *MalformedStructureError) Is(target error) bool { return target == ErrMalformedStructure }
func (e *MalformedStructureError) Unwrap() error        { return e.Err }

// CategoryDependencyError means a category could not be filtered
// because its parent could not be.
type CategoryDependencyError struct {
	Category string
	Parent   string
	Err      error
}

func (e *CategoryDependencyError) Error() string {
	return fmt.Sprintf("%s: parent category %s could not be used: %v", e.Category, e.Parent, e.Err)
}

func (e *CategoryDependencyError) Is(target error) bool { return target == ErrCategoryDependency }
func (e *CategoryDependencyError) Unwrap() error        { return e.Err }

// KeyColumnError means a reference category lacks every column that
// could identify its rows.
type KeyColumnError struct {
	Category string
	Columns  []string
}

func (e *KeyColumnError) Error() string {
	return fmt.Sprintf("%s: no key column, wanted one of %s", e.Category, strings.Join(e.Columns, ", "))
}
