package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// VoiceService transcribes a recorded voice query.
type VoiceService interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

type voiceService struct {
	dir  string
	conv AudioConverter
	tr   Transcriber
}

// NewVoiceService wires the temp directory, converter and transcriber.
func NewVoiceService(dir string, conv AudioConverter, tr Transcriber) VoiceService {
	return &voiceService{dir: dir, conv: conv, tr: tr}
}

// Transcribe stores the upload, converts it and transcribes it. Both the upload
// and its converted copy are removed on every return path. All failures wrap
// ErrTranscription.
func (s *voiceService) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	logger := log.With().Str("component", "voice").Logger()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	in := filepath.Join(s.dir, "voice-"+uuid.NewString()+".webm")
	out := in + ".converted.wav"
	defer removeQuietly(in)
	defer removeQuietly(out)

	if err := writeFile(in, audio); err != nil {
		return "", fmt.Errorf("%w: save upload: %v", ErrTranscription, err)
	}
	if err := s.conv.Convert(ctx, in, out); err != nil {
		logger.Error().Err(err).Str("file", in).Msg("audio conversion failed")
		return "", fmt.Errorf("%w: convert: %w", ErrTranscription, err)
	}

	text, err := s.tr.Transcribe(ctx, out)
	if err != nil {
		logger.Error().Err(err).Msg("transcription failed")
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	text = strings.TrimSpace(text)
	logger.Info().Int("chars", len(text)).Msg("transcribed voice input")
	return text, nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("component", "voice").Str("file", path).Msg("temp file cleanup failed")
	}
}
