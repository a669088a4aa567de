package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Executor fetches a URL into a directory. A nil error only means the process
// ran; whether a video was produced is decided by looking at the directory.
type Executor interface {
	Fetch(ctx context.Context, url, outputTemplate string) (*RunResult, error)
}

// RunResult describes a finished executor process
type RunResult struct {
	ExitCode int
	Stderr   string
	Duration time.Duration
}

// Options configures the yt-dlp invocation
type Options struct {
	Binary        string
	FFmpegPath    string
	SocketTimeout time.Duration
	Retries       int
}

// DefaultOptions returns the fixed flags the bot runs yt-dlp with
func DefaultOptions() Options {
	return Options{
		Binary:        "yt-dlp",
		FFmpegPath:    "ffmpeg",
		SocketTimeout: 30 * time.Second,
		Retries:       3,
	}
}

// YtDlp runs the yt-dlp command line tool
type YtDlp struct {
	opts   Options
	logger *zap.Logger
}

// NewYtDlp creates a new yt-dlp executor
func NewYtDlp(opts Options, logger *zap.Logger) *YtDlp {
	return &YtDlp{opts: opts, logger: logger}
}

// Args builds the yt-dlp argument list
func (y *YtDlp) Args(url, outputTemplate string) []string {
	return []string{
		"-f", "bestvideo+bestaudio/best",
		"-o", outputTemplate,
		"--ffmpeg-location", y.opts.FFmpegPath,
		"--merge-output-format", "mp4",
		"--postprocessor-args", "-c:v libx264 -preset fast -crf 23",
		"--socket-timeout", strconv.Itoa(int(y.opts.SocketTimeout.Seconds())),
		"--retries", strconv.Itoa(y.opts.Retries),
		url,
	}
}

// Fetch runs yt-dlp and waits for it. A non-zero exit is reported in the
// result, not as an error; only a failure to run the process is an error.
func (y *YtDlp) Fetch(ctx context.Context, url, outputTemplate string) (*RunResult, error) {
	cmd := exec.CommandContext(ctx, y.opts.Binary, y.Args(url, outputTemplate)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &RunResult{
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		y.logger.Warn("yt-dlp exited with error",
			zap.String("url", url),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", tail(res.Stderr, 512)),
		)
	default:
		return nil, fmt.Errorf("run %s: %w", y.opts.Binary, err)
	}

	y.logger.Debug("yt-dlp finished",
		zap.String("url", url),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// CheckBinaries verifies yt-dlp and ffmpeg can be found
func (y *YtDlp) CheckBinaries() error {
	if _, err := exec.LookPath(y.opts.Binary); err != nil {
		return fmt.Errorf("%s not found: %w", y.opts.Binary, err)
	}
	if _, err := exec.LookPath(y.opts.FFmpegPath); err != nil {
		return fmt.Errorf("%s not found: %w", y.opts.FFmpegPath, err)
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
