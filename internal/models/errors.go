package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOffline    = errors.New("offline")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// ConnectivityError is returned when an operation is attempted while offline
type ConnectivityError struct {
	Operation string
}

func (e *ConnectivityError) Error() string {
	return "You are currently offline. Please check your internet connection and try again."
}

func (e *ConnectivityError) Is(target error) bool { return target == ErrOffline }

// ValidationError names every field that was missing or malformed
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required fields"
	}
	if len(e.Fields) == 0 {
		return reason
	}
	return fmt.Sprintf("%s: %s", reason, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is returned for lookups of unknown ids
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
