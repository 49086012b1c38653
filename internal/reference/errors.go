package reference

import "errors"

// Resolution errors are configuration problems in the lookup sheet. They are
// surfaced to the user verbatim and never retried.
var (
	// ErrProjectNotFound is returned when the project has no row in the
	// lookup sheet's project column.
	ErrProjectNotFound = errors.New("project not found in lookup sheet")

	// ErrNoTemplateName is returned when the project row does not name an
	// invoice template.
	ErrNoTemplateName = errors.New("no invoice template name specified for project")

	// ErrNoTemplateFound is returned when the named template has no id in
	// the template map columns.
	ErrNoTemplateFound = errors.New("no invoice template found for name")

	// ErrEmptyProjectName is returned when Resolve is called without a
	// project name.
	ErrEmptyProjectName = errors.New("project name is required")
)
