// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field limits for categories. Lengths are counted in runes.
const (
	MinNameLen        = 2
	MaxNameLen        = 30
	MinDescriptionLen = 4
	MaxDescriptionLen = 500
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateInput carries the fields needed to create a category. Parent is
// the name of an existing category; an empty or unknown name creates a root.
type CreateInput struct {
	Name        string `json:"name" validate:"required,min=2,max=30"`
	Description string `json:"description" validate:"required,min=4,max=500"`
	Parent      string `json:"parent,omitempty"`
}

// UpdateInput carries optional replacement values. Nil fields are left as is.
type UpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,min=2,max=30"`
	Description *string `json:"description,omitempty" validate:"omitnil,min=4,max=500"`
}

func (in *CreateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Parent = strings.TrimSpace(in.Parent)
}

func (in *UpdateInput) normalize() {
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
	}
	if in.Description != nil {
		v := strings.TrimSpace(*in.Description)
		in.Description = &v
	}
}

// validateStruct runs the struct tags on v and converts the first failure
// into an ErrInvalidInput with a readable message.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s can not be more than %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
