package chart

import "errors"

var (
	// ErrEmptySeries is returned for a series without bars
	ErrEmptySeries = errors.New("empty price series")
	// ErrInvalidBar is returned when a bar has low above high
	ErrInvalidBar = errors.New("invalid price bar")
	// ErrRender wraps failures inside the drawing library
	ErrRender = errors.New("render chart")
)
