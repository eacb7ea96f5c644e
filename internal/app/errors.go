package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrBotNotFound  = errors.New("bot not found")
)
