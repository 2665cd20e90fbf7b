package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/gofiber/fiber/v2"
)

// AudioConverter normalises an uploaded recording into 16 kHz mono PCM WAV.
type AudioConverter interface {
	Convert(ctx context.Context, in, out string) error
}

// Transcriber turns a WAV file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// ---- ffmpeg ----------------------------------------------------------------

// FFmpegConverter shells out to ffmpeg.
type FFmpegConverter struct {
	Bin string
}

// Convert runs `ffmpeg -y -i in -ar 16000 -ac 1 -c:a pcm_s16le out`.
func (f FFmpegConverter) Convert(ctx context.Context, in, out string) error {
	bin := f.Bin
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, "-y", "-i", in, "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", out)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(string(output)))
	}
	if _, err := os.Stat(out); err != nil {
		return fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ---- local speech-to-text server ------------------------------------------

// ErrVoiceServerDown is returned when the local transcription server refuses connections.
var ErrVoiceServerDown = errors.New("voice server is not running; start the local transcription service on port 5001")

// LocalTranscriber posts the WAV as multipart field "file" to a same-host
// transcription server that answers {"text": "..."}.
type LocalTranscriber struct {
	URL     string
	Timeout time.Duration
}

// Transcribe uploads the file and returns the recognised text.
func (t LocalTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	code, body, errs := fiber.Post(t.URL).
		Timeout(timeout).
		SendFile(wavPath, "file").
		MultipartForm(nil).
		Struct(&out)

	if len(errs) > 0 {
		err := errors.Join(errs...)
		if isConnRefused(err) {
			return "", fmt.Errorf("%w: %v", ErrVoiceServerDown, err)
		}
		if code == 0 {
			return "", fmt.Errorf("transcription request: %w", err)
		}
	}
	if code != fiber.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", fmt.Errorf("transcription server returned %d: %s", code, msg)
	}
	if len(errs) > 0 {
		return "", fmt.Errorf("decode transcription: %w", errors.Join(errs...))
	}
	return out.Text, nil
}

func isConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(err.Error(), "connection refused")
}

// ---- Gemini ----------------------------------------------------------------

const transcribePrompt = "Transcribe this audio exactly. If it is Urdu, write it in Urdu script. If it is Roman Urdu, keep it as Roman Urdu."

// GeminiTranscriber sends the WAV inline to a Gemini model.
type GeminiTranscriber struct {
	model *genai.GenerativeModel
}

// Transcribe asks the model for a verbatim transcript.
func (t *GeminiTranscriber) Transcribe(ctx context.Context, wavPath string) (string, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return "", err
	}
	resp, err := t.model.GenerateContent(ctx, genai.Blob{MIMEType: "audio/wav", Data: data}, genai.Text(transcribePrompt))
	if err != nil {
		return "", fmt.Errorf("gemini transcription: %w", err)
	}
	reply, err := fromGenaiResponse(resp)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}
