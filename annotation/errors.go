package annotation

import (
	"errors"
	"strings"
)

var (
	// error kinds
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrStorage     = errors.New("storage error")
	ErrUpload      = errors.New("upload failed")

	// validation errors
	ErrOutOfBounds = kindError(ErrValidation, "coordinates out of bounds")
	ErrInvalidType = kindError(ErrValidation, "invalid file type")
	ErrTooLarge    = kindError(ErrValidation, "file too large")
	ErrEmptyText   = kindError(ErrValidation, "tooltip text is empty")

	// persistence errors
	ErrDuplicateShortID = kindError(ErrPersistence, "short id already taken")

	// session state refusals
	ErrNoPhoto       = errors.New("no photo loaded")
	ErrPhotoLoaded   = errors.New("a photo is already loaded")
	ErrPendingExists = errors.New("a tooltip is already pending")
	ErrNoPending     = errors.New("no pending tooltip")
)

// Error is a failure of an engine operation. Kind is one of the error kinds above,
// Err is the underlying cause (may be nil).
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Err == nil:
		b.WriteString(e.Kind.Error())
	case errors.Is(e.Err, e.Kind):
		// the cause already names its kind
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.Error())
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func kindError(kind error, msg string) error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// wrap classifies a collaborator failure. Errors that already carry a kind keep it,
// anything else becomes kind.
func wrap(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	for _, k := range []error{ErrNotFound, ErrValidation, ErrPersistence, ErrStorage} {
		if errors.Is(err, k) {
			return &Error{Op: op, Kind: k, Err: err}
		}
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// UploadStep names a step of the upload sequence.
type UploadStep string

const (
	StepValidate UploadStep = "validate"
	StepStore    UploadStep = "store"
	StepPersist  UploadStep = "persist"
	StepLoad     UploadStep = "load"
)

// UploadError reports which step of an upload failed. It matches ErrUpload as well as
// the underlying error.
type UploadError struct {
	Step UploadStep
	Err  error
}

func (e *UploadError) Error() string {
	return "upload failed at " + string(e.Step) + ": " + e.Err.Error()
}

func (e *UploadError) Unwrap() []error {
	return []error{ErrUpload, e.Err}
}
