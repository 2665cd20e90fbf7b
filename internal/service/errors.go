package service

import "errors"

var (
	// ErrValidation wraps every rejected listing payload.
	ErrValidation = errors.New("validation failed")
	// ErrTranscription is returned by the voice pipeline on any conversion or transcription failure.
	ErrTranscription = errors.New("transcription failed")
)
