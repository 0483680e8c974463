package domain

import "errors"

var (
	// ErrEmptyDomain is returned when a variable is declared with an
	// already-empty initial domain (§7: EmptyDomain at construction).
	ErrEmptyDomain = errors.New("domain: variable declared with empty domain")

	// ErrUnknownVariable indicates a scope or box operation referenced
	// a variable ID that is not present.
	ErrUnknownVariable = errors.New("domain: unknown variable id")

	// ErrDuplicateVariable indicates two variables in the same scope
	// share an ID, violating the dense-from-zero identifier contract.
	ErrDuplicateVariable = errors.New("domain: duplicate variable id")

	// ErrKindMismatch indicates an operation expected one Domain kind
	// (e.g. IntSet) but received another.
	ErrKindMismatch = errors.New("domain: operation not valid for this domain kind")
)
