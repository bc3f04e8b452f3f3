package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Animation conversion caps. A capped clip is the point: the output must land
// under the inline transport limit, so duration, frame rate and width are all
// sacrificed.
const (
	animationMaxSeconds = 45
	animationFPS        = 8
	animationWidth      = 480
)

// ToAnimation converts the first seconds of a video into a silent GIF next to
// the source file. Two ffmpeg passes: one to build a palette, one to apply it,
// which keeps the output noticeably smaller than a single-pass encode.
func ToAnimation(ctx context.Context, videoPath string) (string, error) {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	palettePath := base + "_palette.png"
	gifPath := base + ".gif"

	filters := fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos", animationFPS, animationWidth)

	if err := runFFmpeg(ctx,
		"-y",
		"-t", fmt.Sprintf("%d", animationMaxSeconds),
		"-i", videoPath,
		"-vf", filters+",palettegen",
		palettePath,
	); err != nil {
		return "", fmt.Errorf("palette pass: %w", err)
	}

	if err := runFFmpeg(ctx,
		"-y",
		"-t", fmt.Sprintf("%d", animationMaxSeconds),
		"-i", videoPath,
		"-i", palettePath,
		"-lavfi", filters+" [x]; [x][1:v] paletteuse",
		gifPath,
	); err != nil {
		return "", fmt.Errorf("encode pass: %w", err)
	}

	removeQuiet(palettePath)
	return gifPath, nil
}

// ExtractAudio pulls the audio track into an mp3 next to the source file,
// downmixed to mono at a low bitrate to stay under transcription upload
// limits.
func ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
	if err := runFFmpeg(ctx,
		"-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-b:a", "64k",
		audioPath,
	); err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	return audioPath, nil
}

func removeQuiet(path string) {
	_ = os.Remove(path)
}

func runFFmpeg(ctx context.Context, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %s: %w", lastLine(stderr.String()), err)
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
