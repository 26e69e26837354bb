package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrSchema ErrorType = iota
	ErrStructure
	ErrArchive
	ErrIndexGen
	ErrSigning
	ErrFileOp
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrSchema:
		return "Schema"
	case ErrStructure:
		return "Structure"
	case ErrArchive:
		return "Archive"
	case ErrIndexGen:
		return "IndexGen"
	case ErrSigning:
		return "Signing"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// BuildError represents an error during repository building
type BuildError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *BuildError) Unwrap() error {
	return e.Err
}
