package core

import "errors"

var (
	// ErrNotFound is returned when a cache entry is not found
	ErrNotFound = errors.New("cache entry not found")

	// ErrEmptyQuery is returned when a search is started without a query
	ErrEmptyQuery = errors.New("empty search query")

	// ErrUnsupportedProvider is returned for an unknown backend or cache name
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Validation rejection reasons
var (
	ErrEmptyTranslation   = errors.New("empty")
	ErrIdenticalToSource  = errors.New("identical to source")
	ErrTooShort           = errors.New("too short")
	ErrTooLong            = errors.New("too long")
	ErrControlCharacters  = errors.New("only control characters")
	ErrInvalidCharacters  = errors.New("too many invalid characters")
	ErrBackendUnavailable = errors.New("translation backend unavailable")
)
