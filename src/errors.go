package ccsds

import "errors"

var (
	ErrUncorrectable    = errors.New("uncorrectable RS block")
	ErrMalformedMessage = errors.New("malformed payload message")
	ErrLengthMismatch   = errors.New("payload length mismatch")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
