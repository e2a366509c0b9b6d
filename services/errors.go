package services

import "errors"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownStatus  = errors.New("unknown voice status")
)
