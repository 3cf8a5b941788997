package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openlms/enrollment-summary-api/internal/models"
	"github.com/openlms/enrollment-summary-api/pkg/coursekey"
	appErrors "github.com/openlms/enrollment-summary-api/pkg/errors"
)

type userDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RawFilter carries the unvalidated query parameters of a summary request.
type RawFilter struct {
	UserID    string `validate:"omitempty,number"`
	Active    string
	CourseKey string
	Page      string `validate:"omitempty,number"`
	PageSize  string `validate:"omitempty,number"`
}

// FilterService turns raw query parameters plus the requesting principal into
// a validated FilterSpec. It rejects malformed input before any data access;
// its only side effect is one user-directory existence check when a staff
// caller filters on a foreign user id.
type FilterService struct {
	users           userDirectory
	validator       *validator.Validate
	defaultPageSize int
	maxPageSize     int
	logger          *zap.Logger
}

// NewFilterService constructs a FilterService.
func NewFilterService(users userDirectory, validate *validator.Validate, defaultPageSize, maxPageSize int, logger *zap.Logger) *FilterService {
	if validate == nil {
		validate = validator.New()
	}
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterService{users: users, validator: validate, defaultPageSize: defaultPageSize, maxPageSize: maxPageSize, logger: logger}
}

// Resolve validates the raw parameters against the principal's scope.
//
// Scope rules: a non-staff caller is always pinned to their own user id — an
// omitted user_id defaults to it, and any other value is a hard 403 so the
// caller gets an unambiguous signal instead of an empty result. A staff
// caller may omit user_id (no user filter) or name any existing user.
func (s *FilterService) Resolve(ctx context.Context, principal *models.JWTClaims, raw RawFilter) (models.FilterSpec, error) {
	var spec models.FilterSpec

	if principal == nil {
		return spec, appErrors.ErrUnauthorized
	}

	if err := s.validator.Struct(raw); err != nil {
		return spec, appErrors.Clone(appErrors.ErrInvalidParameter, invalidParamMessage(err))
	}

	if raw.UserID == "" {
		if !principal.Staff {
			own := principal.UserID
			spec.UserID = &own
		}
	} else {
		id, err := strconv.ParseInt(raw.UserID, 10, 64)
		if err != nil || id <= 0 {
			return spec, appErrors.Clone(appErrors.ErrInvalidParameter, "user_id must be a valid positive integer")
		}
		if !principal.Staff && id != principal.UserID {
			return spec, appErrors.Clone(appErrors.ErrForbidden, "not permitted to view other users' enrollments")
		}
		if principal.Staff && id != principal.UserID {
			exists, err := s.users.Exists(ctx, id)
			if err != nil {
				return spec, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "user directory lookup failed")
			}
			if !exists {
				return spec, appErrors.Clone(appErrors.ErrUnknownUser, fmt.Sprintf("user with id %d does not exist", id))
			}
		}
		spec.UserID = &id
	}

	if raw.Active != "" {
		active, err := parseActive(raw.Active)
		if err != nil {
			return spec, err
		}
		spec.Active = &active
	}

	if raw.CourseKey != "" {
		key, err := coursekey.Parse(raw.CourseKey)
		if err != nil {
			return spec, appErrors.Clone(appErrors.ErrInvalidParameter, fmt.Sprintf("invalid course_key: %s", raw.CourseKey))
		}
		spec.CourseKey = &key
	}

	page, err := parsePositiveInt(raw.Page, 1, "page")
	if err != nil {
		return spec, err
	}
	spec.Page = page

	size, err := parsePositiveInt(raw.PageSize, s.defaultPageSize, "page_size")
	if err != nil {
		return spec, err
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	spec.PageSize = size

	return spec, nil
}

func invalidParamMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "UserID":
			return "user_id must be a valid positive integer"
		case "Page":
			return "page must be an integer >= 1"
		case "PageSize":
			return "page_size must be an integer >= 1"
		}
	}
	return "malformed query parameters"
}

func parseActive(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, appErrors.Clone(appErrors.ErrInvalidParameter, "active parameter must be true or false")
}

func parsePositiveInt(raw string, fallback int, name string) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, appErrors.Clone(appErrors.ErrInvalidParameter, fmt.Sprintf("%s must be an integer >= 1", name))
	}
	return v, nil
}
