package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Dimensions returns the display width and height of the first video stream
// via ffprobe. Vertical videos sometimes carry a 90/270 rotation tag instead
// of swapped dimensions; the swap happens here so the receiver renders them
// upright.
func Dimensions(ctx context.Context, videoPath string) (width, height int, err error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "v:0",
		videoPath,
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0, 0, fmt.Errorf("ffprobe %s: %w", videoPath, err)
	}

	var probe struct {
		Streams []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
			Tags   struct {
				Rotate string `json:"rotate"`
			} `json:"tags"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &probe); err != nil {
		return 0, 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return 0, 0, fmt.Errorf("no video stream in %s", videoPath)
	}

	s := probe.Streams[0]
	if s.Width <= 0 || s.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions for %s", videoPath)
	}
	if rotate, convErr := strconv.Atoi(s.Tags.Rotate); convErr == nil && (rotate == 90 || rotate == 270) {
		return s.Height, s.Width, nil
	}
	return s.Width, s.Height, nil
}
