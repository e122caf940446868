// Package vision turns image bytes into natural-language descriptions via a
// remote multimodal model.
package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"

	// Register decoders for every supported attachment image format.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DescribeRequest carries one image to the remote backend.
type DescribeRequest struct {
	Mime   string
	Data   []byte
	Prompt string
}

// Backend is the remote vision-completion collaborator.
type Backend interface {
	Describe(ctx context.Context, req DescribeRequest) (string, error)
}

// Info is basic image metadata obtained without a remote call.
type Info struct {
	Width  int
	Height int
	Format string
}

// Analyzer validates images locally and delegates description to a Backend.
// The backend handle is fixed at construction; a nil backend means the
// process-lifetime initialization failed and every Analyze call fails fast.
type Analyzer struct {
	backend Backend
	logger  *slog.Logger
}

// NewAnalyzer creates an Analyzer. backend may be nil when initialization
// failed at startup.
func NewAnalyzer(log *slog.Logger, backend Backend) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{
		backend: backend,
		logger:  log.With(slog.String("service", "vision")),
	}
}

// Available reports whether the remote backend was initialized.
func (a *Analyzer) Available() bool {
	return a.backend != nil
}

// Analyze fully decodes the image at localPath, then asks the backend to
// describe it. A corrupt image never reaches the backend.
func (a *Analyzer) Analyze(ctx context.Context, localPath, prompt string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	// Full decode, not a header sniff: truncated pixel data must fail here.
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	if a.backend == nil {
		return "", ErrBackendUnavailable
	}

	desc, err := a.backend.Describe(ctx, DescribeRequest{
		Mime:   mimeForFormat(format),
		Data:   data,
		Prompt: prompt,
	})
	if err != nil {
		a.logger.Warn("vision backend call failed", slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return strings.TrimSpace(desc), nil
}

// Probe returns image dimensions and format without a remote call. Used as
// the fallback when the analyzer is unavailable or rationed.
func Probe(localPath string) (Info, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return Info{}, fmt.Errorf("open image: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

func mimeForFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "webp":
		return "image/webp"
	case "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
