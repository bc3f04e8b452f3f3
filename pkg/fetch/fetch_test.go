package fetch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	retryable := []string{
		"HTTP Error 429: Too Many Requests",
		"unable to download: too many requests",
		"Instagram rate-limit reached",
		"rate_limit exceeded, try later",
		"login required to access this post",
	}
	for _, msg := range retryable {
		assert.True(t, IsRetryable(errors.New(msg)), msg)
	}

	permanent := []string{
		"this post is private",
		"HTTP Error 404: Not Found",
		"network is unreachable",
	}
	for _, msg := range permanent {
		assert.False(t, IsRetryable(errors.New(msg)), msg)
	}

	assert.False(t, IsRetryable(nil))
}

func TestExtractURLs(t *testing.T) {
	text := "olha esse https://www.instagram.com/reel/Cxyz123/ e esse https://instagram.com/p/Babc456/"
	urls := ExtractURLs(text)
	assert.Equal(t, []string{
		"https://www.instagram.com/reel/Cxyz123/",
		"https://instagram.com/p/Babc456/",
	}, urls)
}

func TestExtractURLsNoMatch(t *testing.T) {
	assert.Empty(t, ExtractURLs("https://youtube.com/watch?v=abc"))
	assert.Empty(t, ExtractURLs("   "))
}

func TestSweepSidecarsLeavesOnlyVideo(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "abc.mp4")
	for _, name := range []string{"abc.mp4", "abc.info.json", "cookies.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	sweepSidecars(dir, video)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc.mp4", entries[0].Name())

	// With the sidecars gone, deleting the video leaves the directory
	// empty and removable.
	require.NoError(t, os.Remove(video))
	require.NoError(t, os.Remove(dir))
}
