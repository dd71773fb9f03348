package entities

import "errors"

// Domain errors
var (
	// Persistence errors
	ErrSummaryNotFound = errors.New("summary not found")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")

	// Transcript provider errors
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrTranscriptNotReady = errors.New("transcript not ready")
	ErrTranscriptFailed   = errors.New("transcription failed")
)
