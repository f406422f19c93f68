package parser

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OCR recognises text in an image file.
type OCR interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// TesseractBinary is the executable looked up on PATH.
const TesseractBinary = "tesseract"

// Tesseract runs the tesseract command line tool.
type Tesseract struct {
	bin string
}

// NewTesseract returns an OCR engine backed by the tesseract binary on
// PATH, or nil if it is not installed.
func NewTesseract() *Tesseract {
	bin, err := exec.LookPath(TesseractBinary)
	if err != nil {
		return nil
	}
	return &Tesseract{bin: bin}
}

// Recognize writes the recognised text of path to stdout and returns it.
func (t *Tesseract) Recognize(ctx context.Context, path string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.bin, path, "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("tesseract: %w", err)
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, msg)
	}
	return stdout.String(), nil
}
