package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"media-courier-be/internal/pkg/logger"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
}

// YtDlpFetcher shells out to the yt-dlp binary. Each fetch gets its own
// temporary directory; cookies are copied in because yt-dlp rewrites the
// cookie jar it is given.
type YtDlpFetcher struct {
	binPath     string
	cookiesFile string
	log         logger.ILogger
}

func NewYtDlpFetcher(binPath, cookiesFile string, log logger.ILogger) *YtDlpFetcher {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &YtDlpFetcher{binPath: binPath, cookiesFile: cookiesFile, log: log}
}

func (f *YtDlpFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	tmpDir, err := os.MkdirTemp("", "media_courier_")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	args := []string{
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"-f", "bestvideo+bestaudio/best",
		"--merge-output-format", "mp4",
		"--write-info-json",
		"-o", filepath.Join(tmpDir, "%(id)s.%(ext)s"),
	}
	if f.cookiesFile != "" {
		if copied, copyErr := copyCookies(f.cookiesFile, tmpDir); copyErr == nil {
			args = append(args, "--cookies", copied)
			f.log.Info("fetch", "using cookies file", map[string]interface{}{"source": f.cookiesFile})
		}
	}
	args = append(args, url)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binPath, args...)
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		_ = os.RemoveAll(tmpDir)
		msg := strings.ToLower(stderr.String())
		if strings.Contains(msg, "no video could be found") || strings.Contains(msg, "no video") {
			return nil, ErrNoVideo
		}
		return nil, fmt.Errorf("yt-dlp: %s: %w", strings.TrimSpace(stderr.String()), runErr)
	}

	videoPath, description := scanOutput(tmpDir)
	if videoPath == "" {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("yt-dlp produced no video file for %s", url)
	}
	sweepSidecars(tmpDir, videoPath)
	return &Result{Path: videoPath, Description: description}, nil
}

// scanOutput locates the downloaded video and pulls the post description from
// the sidecar info json, preferring description over title.
func scanOutput(dir string) (videoPath, description string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case videoExtensions[ext]:
			videoPath = filepath.Join(dir, name)
		case strings.HasSuffix(name, ".info.json"):
			description = readDescription(filepath.Join(dir, name))
		}
	}
	return videoPath, description
}

// sweepSidecars deletes everything in dir except the video itself, so that
// removing the video later leaves an empty, removable directory behind.
func sweepSidecars(dir, videoPath string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if path == videoPath {
			continue
		}
		_ = os.RemoveAll(path)
	}
}

func readDescription(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var info struct {
		Description string `json:"description"`
		Title       string `json:"title"`
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return ""
	}
	if d := strings.TrimSpace(info.Description); d != "" {
		return d
	}
	return strings.TrimSpace(info.Title)
}

func copyCookies(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := filepath.Join(dir, "cookies.txt")
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", err
	}
	return dst, nil
}
