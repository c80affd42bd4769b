package resolver

import (
	"encoding/json"
	"math"
	"strconv"

	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
)

// Arguments is the decoded argument object of a request.
type Arguments map[string]any

// ID reads a required integer identifier. JSON numbers, integer types and
// decimal strings are accepted.
func (a Arguments) ID(name string) (int64, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return 0, apperrors.NewArgumentError(name, "is required")
	}

	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, apperrors.NewArgumentError(name, "must be an integer")
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, apperrors.NewArgumentError(name, "must be an integer")
		}
		return id, nil
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, apperrors.NewArgumentError(name, "must be an integer")
		}
		return id, nil
	default:
		return 0, apperrors.NewArgumentError(name, "must be an integer")
	}
}

// String reads a required string.
func (a Arguments) String(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", apperrors.NewArgumentError(name, "is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", apperrors.NewArgumentError(name, "must be a string")
	}
	return s, nil
}

// OptionalString reads a string that may be absent or null.
func (a Arguments) OptionalString(name string) (*string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, apperrors.NewArgumentError(name, "must be a string")
	}
	return &s, nil
}

// Criteria reads the optional search filters.
func (a Arguments) Criteria() (domain.SearchCriteria, error) {
	var (
		c   domain.SearchCriteria
		err error
	)
	if c.Name, err = a.OptionalString("name"); err != nil {
		return c, err
	}
	if c.Email, err = a.OptionalString("email"); err != nil {
		return c, err
	}
	if c.Phone, err = a.OptionalString("phone"); err != nil {
		return c, err
	}
	return c, nil
}

// Input reads the required user input object. Missing name or email are left
// empty so validation reports them alongside any other violation.
func (a Arguments) Input(name string) (user.UserInput, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return user.UserInput{}, apperrors.NewArgumentError(name, "is required")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return user.UserInput{}, apperrors.NewArgumentError(name, "must be an object")
	}

	in := Arguments(obj)
	var (
		out user.UserInput
		err error
	)

	fieldErr := func(field string) error {
		return apperrors.NewArgumentError(name+"."+field, "must be a string")
	}

	var s *string
	if s, err = in.OptionalString("name"); err != nil {
		return out, fieldErr("name")
	}
	if s != nil {
		out.Name = *s
	}
	if s, err = in.OptionalString("email"); err != nil {
		return out, fieldErr("email")
	}
	if s != nil {
		out.Email = *s
	}
	if out.Phone, err = in.OptionalString("phone"); err != nil {
		return out, fieldErr("phone")
	}
	if out.Address, err = in.OptionalString("address"); err != nil {
		return out, fieldErr("address")
	}
	return out, nil
}
