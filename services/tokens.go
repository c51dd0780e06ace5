package services

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	shareTokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	shareTokenLength   = 22
)

// TokenGenerator produces share tokens for unlisted lists.
type TokenGenerator func() (string, error)

// NewShareToken returns a URL-safe random token.
func NewShareToken() (string, error) {
	return gonanoid.Generate(shareTokenAlphabet, shareTokenLength)
}
