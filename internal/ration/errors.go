package ration

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientCategoryCoverage is returned when the selection omits a category.
	ErrInsufficientCategoryCoverage = errors.New("insufficient category coverage")
	// ErrDuplicateIngredient is returned when two selected ingredients share an id.
	ErrDuplicateIngredient = errors.New("duplicate ingredient id")
	// ErrInvalidIngredient covers empty ids, unknown categories or nutrients and
	// negative or non-finite values.
	ErrInvalidIngredient = errors.New("invalid ingredient")
	// ErrInvalidProfile covers unknown nutrients and negative or non-finite targets.
	ErrInvalidProfile = errors.New("invalid nutrient profile")
	// ErrInvalidOptions covers unusable model options.
	ErrInvalidOptions = errors.New("invalid model options")
)

// ModelConstructionError reports why a model could not be built. No solver
// is created when one is returned.
type ModelConstructionError struct {
	Kind   error
	Detail string
}

func (e *ModelConstructionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("model construction: %v", e.Kind)
	}
	return fmt.Sprintf("model construction: %v: %s", e.Kind, e.Detail)
}

func (e *ModelConstructionError) Unwrap() error {
	return e.Kind
}

func constructionError(kind error, format string, args ...interface{}) error {
	return &ModelConstructionError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
