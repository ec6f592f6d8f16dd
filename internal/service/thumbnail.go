package service

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Resizer scales an image to the given width keeping its aspect ratio.
// name is the original file name and hints at the output format
type Resizer interface {
	Resize(ctx context.Context, src []byte, name string, width int) ([]byte, error)
}

type ImagingResizer struct{}

func (ImagingResizer) Resize(_ context.Context, src []byte, name string, width int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image, %w", err)
	}

	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Resize(img, width, 0, imaging.Lanczos), format); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail, %w", err)
	}

	return buf.Bytes(), nil
}

// FFmpegResizer pipes the image through an ffmpeg binary
type FFmpegResizer struct {
	Path string
}

func (r FFmpegResizer) Resize(ctx context.Context, src []byte, name string, width int) ([]byte, error) {
	bin := r.Path
	if bin == "" {
		bin = "ffmpeg"
	}

	codec := "png"
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		codec = "mjpeg"
	case ".webp":
		codec = "libwebp"
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, bin,
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vf", fmt.Sprintf("scale=%d:-1", width),
		"-frames:v", "1",
		"-c:v", codec,
		"-f", "image2pipe",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed, %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}
