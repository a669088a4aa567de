package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vidbot/internal/domain"
	"vidbot/internal/downloader"
	"vidbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testURL = "https://www.instagram.com/reel/abc123/"

type downloadFixture struct {
	users     *testutil.MockUserRepository
	history   *testutil.MockHistoryRepository
	executor  *testutil.MockExecutor
	workspace *downloader.Workspace
	service   *DownloadService
	now       time.Time
}

func newDownloadFixture(t *testing.T) *downloadFixture {
	t.Helper()
	ws, err := downloader.NewWorkspace(t.TempDir())
	require.NoError(t, err)

	f := &downloadFixture{
		users:     new(testutil.MockUserRepository),
		history:   new(testutil.MockHistoryRepository),
		executor:  new(testutil.MockExecutor),
		workspace: ws,
		now:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewDownloadService(f.users, f.history, ws, f.executor, DefaultLimits, 2, testutil.NewTestLogger())
	f.service.now = func() time.Time { return f.now }
	return f
}

// jobDirs lists job directories still present in the workspace
func (f *downloadFixture) jobDirs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.workspace.BaseDir())
	require.NoError(t, err)
	var dirs []string
	for _, e := range entries {
		dirs = append(dirs, e.Name())
	}
	return dirs
}

func TestExceeds(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		limitMB  int
		expected bool
	}{
		{name: "standard one byte below", size: 100*bytesPerMB - 1, limitMB: 100, expected: false},
		{name: "standard exactly at limit", size: 100 * bytesPerMB, limitMB: 100, expected: false},
		{name: "standard one byte above", size: 100*bytesPerMB + 1, limitMB: 100, expected: true},
		{name: "premium one byte below", size: 1024*bytesPerMB - 1, limitMB: 1024, expected: false},
		{name: "premium exactly at limit", size: 1024 * bytesPerMB, limitMB: 1024, expected: false},
		{name: "premium one byte above", size: 1024*bytesPerMB + 1, limitMB: 1024, expected: true},
		{name: "empty file", size: 0, limitMB: 100, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Exceeds(tt.size, tt.limitMB))
		})
	}
}

func TestLimits_For(t *testing.T) {
	assert.Equal(t, 100, DefaultLimits.For(false))
	assert.Equal(t, 1024, DefaultLimits.For(true))
}

func TestDownloadService_Success(t *testing.T) {
	f := newDownloadFixture(t)
	size := int64(50 * bytesPerMB)

	f.executor.On("Fetch", mock.Anything, testURL, mock.AnythingOfType("string")).
		Run(testutil.WriteVideo("reel.mp4", size)).
		Return(&downloader.RunResult{}, nil)
	f.users.On("GetUser", mock.Anything, int64(1)).Return(testutil.NewTestUser(1, domain.LanguageEN, false), nil)
	f.history.On("RecordDownload", mock.Anything, int64(1), testURL, f.now).Return(nil).Once()

	d, err := f.service.Download(context.Background(), 1, testURL, domain.PlatformInstagram)

	require.NoError(t, err)
	assert.Equal(t, size, d.SizeBytes)
	assert.Equal(t, "reel.mp4", filepath.Base(d.Path))
	assert.FileExists(t, d.Path)

	require.NoError(t, d.Release())
	assert.NoFileExists(t, d.Path)
	assert.Empty(t, f.jobDirs(t))

	f.executor.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.history.AssertExpectations(t)
}

func TestDownloadService_NoVideo(t *testing.T) {
	f := newDownloadFixture(t)

	f.executor.On("Fetch", mock.Anything, testURL, mock.AnythingOfType("string")).
		Return(&downloader.RunResult{ExitCode: 1, Stderr: "ERROR: Unsupported URL"}, nil)

	d, err := f.service.Download(context.Background(), 1, testURL, domain.PlatformInstagram)

	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrNoVideo)
	assert.Empty(t, f.jobDirs(t), "job dir removed on failure")
	f.history.AssertNotCalled(t, "RecordDownload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDownloadService_NonZeroExitWithVideoSucceeds(t *testing.T) {
	f := newDownloadFixture(t)

	f.executor.On("Fetch", mock.Anything, testURL, mock.AnythingOfType("string")).
		Run(testutil.WriteVideo("clip.mp4", 1024)).
		Return(&downloader.RunResult{ExitCode: 1}, nil)
	f.users.On("GetUser", mock.Anything, int64(1)).Return(nil, nil)
	f.history.On("RecordDownload", mock.Anything, int64(1), testURL, f.now).Return(nil)

	d, err := f.service.Download(context.Background(), 1, testURL, domain.PlatformTwitter)

	require.NoError(t, err)
	require.NoError(t, d.Release())
	f.history.AssertExpectations(t)
}

func TestDownloadService_SizeLimit(t *testing.T) {
	tests := []struct {
		name        string
		premium     bool
		size        int64
		expectLimit int
		expectError bool
	}{
		{name: "standard below ceiling", premium: false, size: 100*bytesPerMB - 1},
		{name: "standard above ceiling", premium: false, size: 100*bytesPerMB + 1, expectLimit: 100, expectError: true},
		{name: "premium below ceiling", premium: true, size: 1024*bytesPerMB - 1},
		{name: "premium above ceiling", premium: true, size: 1024*bytesPerMB + 1, expectLimit: 1024, expectError: true},
		{name: "premium allows what standard rejects", premium: true, size: 500 * bytesPerMB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDownloadFixture(t)

			f.executor.On("Fetch", mock.Anything, testURL, mock.AnythingOfType("string")).
				Run(testutil.WriteVideo("big.mp4", tt.size)).
				Return(&downloader.RunResult{}, nil)
			f.users.On("GetUser", mock.Anything, int64(1)).Return(testutil.NewTestUser(1, domain.LanguageTR, tt.premium), nil)
			if !tt.expectError {
				f.history.On("RecordDownload", mock.Anything, int64(1), testURL, f.now).Return(nil)
			}

			d, err := f.service.Download(context.Background(), 1, testURL, domain.PlatformInstagram)

			if tt.expectError {
				var sizeErr *SizeLimitError
				require.True(t, errors.As(err, &sizeErr))
				assert.Equal(t, tt.expectLimit, sizeErr.LimitMB)
				assert.Equal(t, tt.size, sizeErr.SizeBytes)
				assert.Nil(t, d)
				assert.Empty(t, f.jobDirs(t))
				f.history.AssertNotCalled(t, "RecordDownload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				require.NoError(t, d.Release())
				f.history.AssertExpectations(t)
			}
		})
	}
}

func TestDownloadService_ExecutorFailure(t *testing.T) {
	f := newDownloadFixture(t)

	f.executor.On("Fetch", mock.Anything, testURL, mock.AnythingOfType("string")).
		Return(nil, fmt.Errorf("exec: \"yt-dlp\": executable file not found in $PATH"))

	_, err := f.service.Download(context.Background(), 1, testURL, domain.PlatformTwitter)

	var execErr *ExecutorError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "run downloader", execErr.Op)
	assert.Contains(t, err.Error(), "executable file not found")
	assert.Empty(t, f.jobDirs(t))
}

func TestDownloadService_RecordFailureIsNotDelivered(t *testing.T) {
	f := newDownloadFixture(t)

	f.executor.On("Fetch", mock.Anything, testURL, mock.AnythingOfType("string")).
		Run(testutil.WriteVideo("clip.mp4", 10)).
		Return(&downloader.RunResult{}, nil)
	f.users.On("GetUser", mock.Anything, int64(1)).Return(nil, nil)
	f.history.On("RecordDownload", mock.Anything, int64(1), testURL, f.now).Return(fmt.Errorf("db down"))

	d, err := f.service.Download(context.Background(), 1, testURL, domain.PlatformTwitter)

	assert.Nil(t, d)
	var execErr *ExecutorError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "record download", execErr.Op)
	assert.Empty(t, f.jobDirs(t))
}

func TestDownloadService_ConcurrentJobsAreIsolated(t *testing.T) {
	f := newDownloadFixture(t)

	seen := make(chan string, 2)
	f.executor.On("Fetch", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			seen <- filepath.Dir(args.String(2))
			testutil.WriteVideo("v.mp4", 1)(args)
		}).
		Return(&downloader.RunResult{}, nil)
	f.users.On("GetUser", mock.Anything, mock.Anything).Return(nil, nil)
	f.history.On("RecordDownload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	type result struct {
		d   *Delivery
		err error
	}
	results := make(chan result, 2)
	for _, userID := range []int64{1, 2} {
		go func(id int64) {
			d, err := f.service.Download(context.Background(), id, fmt.Sprintf("https://x.com/%d", id), domain.PlatformTwitter)
			results <- result{d, err}
		}(userID)
	}

	first, second := <-results, <-results
	require.NoError(t, first.err)
	require.NoError(t, second.err)
	assert.NotEqual(t, filepath.Dir(first.d.Path), filepath.Dir(second.d.Path))
	assert.NotEqual(t, <-seen, <-seen)

	require.NoError(t, first.d.Release())
	require.NoError(t, second.d.Release())
}

func TestDownloadService_CancelledWhileWaitingForSlot(t *testing.T) {
	f := newDownloadFixture(t)
	f.service = NewDownloadService(f.users, f.history, f.workspace, f.executor, DefaultLimits, 1, testutil.NewTestLogger())

	require.NoError(t, f.service.sem.Acquire(context.Background(), 1))
	defer f.service.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Download(ctx, 1, testURL, domain.PlatformTwitter)

	var execErr *ExecutorError
	require.True(t, errors.As(err, &execErr))
	assert.ErrorIs(t, err, context.Canceled)
	f.executor.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}
