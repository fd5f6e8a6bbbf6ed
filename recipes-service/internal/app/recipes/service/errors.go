package service

import (
	"errors"
	"fmt"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not allowed to modify this resource")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("recipe was modified concurrently, please retry")

	// Уточнённые NotFound, errors.Is(err, ErrNotFound) для всех true
	ErrRecipeNotFound  = fmt.Errorf("recipe %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
	ErrReplyNotFound   = fmt.Errorf("reply %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
)

func invalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}
