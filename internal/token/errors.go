package token

import "errors"

var (
	// ErrTokenGeneration indicates token signing failed
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrMalformedToken indicates the token structure cannot be parsed,
	// or a required claim is missing
	ErrMalformedToken = errors.New("malformed token")

	// ErrBadSignature indicates the token signature does not verify
	ErrBadSignature = errors.New("token signature mismatch")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidToken indicates the token failed validation for any other reason
	ErrInvalidToken = errors.New("invalid token")
)
