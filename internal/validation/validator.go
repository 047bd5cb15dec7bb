// Basketry - Market Basket Analysis and Co-Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package validation provides struct validation using
// go-playground/validator v10 through a thread-safe singleton instance.
//
//	type AddItemRequest struct {
//	    ItemName string `validate:"required,min=1,max=200"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondError(w, http.StatusBadRequest, verr.Code(), verr.Message(), nil)
//	    return
//	}
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// instance returns the singleton validator. Struct metadata is cached, so
// sharing one instance is both safe and fast.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Error is a translated validation failure suitable for API responses.
type Error struct {
	fields []string
}

// Code returns the stable machine-readable error code.
func (e *Error) Code() string { return "VALIDATION_ERROR" }

// Message returns a human-readable summary of the failed fields.
func (e *Error) Message() string {
	return "validation failed: " + strings.Join(e.fields, "; ")
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message() }

// ValidateStruct validates a struct against its validate tags. It returns
// nil when validation passes.
func ValidateStruct(v interface{}) *Error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Error{fields: []string{err.Error()}}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, translate(fe))
	}
	return &Error{fields: fields}
}

// translate renders one field error in plain language.
func translate(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
