// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/lifecycle"
	"github.com/danielhkuo/quickly-meet/metrics"
	"github.com/danielhkuo/quickly-meet/slotgrid"
	"github.com/danielhkuo/quickly-meet/store"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("edit token does not match")
	ErrImmutableField = errors.New("field cannot change")
	ErrPollNotOpen    = errors.New("poll is not open for responses")
	ErrValidation     = errors.New("validation failed")
	ErrUnavailable    = errors.New("service unavailable")
)

var callerErrors = []error{
	ErrNotFound, ErrForbidden, ErrImmutableField, ErrPollNotOpen, ErrValidation,
	lifecycle.ErrInvalidTransition,
	slotgrid.ErrInvalidRange, slotgrid.ErrInvalidDuration,
	slotgrid.ErrInvalidTimezone, slotgrid.ErrInvalidSlot,
	auth.ErrInvalidAdminKey, auth.ErrInvalidEditToken,
}

// slugAttempts bounds retries when a freshly drawn slug collides
const slugAttempts = 5

// PollService implements the poll operations on top of the store.
// It is safe for concurrent use.
type PollService struct {
	store    *store.Store
	grids    *slotgrid.Cache
	metrics  metrics.Recorder
	cfg      cliparse.Config
	validate *validator.Validate
}

func New(st *store.Store, cfg cliparse.Config, rec metrics.Recorder) *PollService {
	if rec == nil {
		rec = metrics.NewNop()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &PollService{
		store:    st,
		grids:    slotgrid.NewCache(rec),
		metrics:  rec,
		cfg:      cfg,
		validate: v,
	}
}

// Ping reports whether the store is reachable
func (s *PollService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Grids exposes the grid cache. Used by tests.
func (s *PollService) Grids() *slotgrid.Cache {
	return s.grids
}

func (s *PollService) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fieldPath(fe), describeTag(fe)))
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// fieldPath drops the struct name, e.g. availabilities[0].slot_start
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// translate maps store errors onto service errors. Anything unexpected is
// wrapped as ErrUnavailable; caller errors from guards pass through.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case isCallerError(err):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func isCallerError(err error) bool {
	for _, target := range callerErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
