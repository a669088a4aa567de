package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vidbot/internal/domain"
	"vidbot/internal/downloader"
	"vidbot/internal/repository"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const bytesPerMB = 1024 * 1024

// ErrNoVideo is returned when the executor produced no *.mp4 file
var ErrNoVideo = errors.New("no video found")

// SizeLimitError is returned when the video is larger than the user's ceiling
type SizeLimitError struct {
	SizeBytes int64
	LimitMB   int
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("video size %s exceeds the limit (%dMB)", humanize.IBytes(uint64(e.SizeBytes)), e.LimitMB)
}

// ExecutorError wraps unanticipated executor, filesystem or store failures
type ExecutorError struct {
	Op  string
	Err error
}

func (e *ExecutorError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ExecutorError) Unwrap() error {
	return e.Err
}

// Limits are the size ceilings per tier, in MB
type Limits struct {
	StandardMB int
	PremiumMB  int
}

// DefaultLimits are 100MB for standard users and 1GB for premium users
var DefaultLimits = Limits{StandardMB: 100, PremiumMB: 1024}

// For returns the ceiling for the tier
func (l Limits) For(premium bool) int {
	if premium {
		return l.PremiumMB
	}
	return l.StandardMB
}

// Exceeds reports whether size is over limitMB. A file of exactly limitMB is allowed.
func Exceeds(sizeBytes int64, limitMB int) bool {
	return sizeBytes > int64(limitMB)*bytesPerMB
}

// Delivery is a downloaded video ready to be sent
type Delivery struct {
	Path      string
	SizeBytes int64
	job       *downloader.Job
}

// Release removes the video's working directory
func (d *Delivery) Release() error {
	return d.job.Release()
}

// DownloadService runs the download pipeline
type DownloadService struct {
	userRepo  repository.UserRepository
	recorder  repository.DownloadRecorder
	workspace *downloader.Workspace
	executor  downloader.Executor
	limits    Limits
	sem       *semaphore.Weighted
	logger    *zap.Logger
	now       func() time.Time
}

// NewDownloadService creates a new download service. maxParallel bounds the
// number of executor processes running at once.
func NewDownloadService(
	userRepo repository.UserRepository,
	recorder repository.DownloadRecorder,
	workspace *downloader.Workspace,
	executor downloader.Executor,
	limits Limits,
	maxParallel int,
	logger *zap.Logger,
) *DownloadService {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &DownloadService{
		userRepo:  userRepo,
		recorder:  recorder,
		workspace: workspace,
		executor:  executor,
		limits:    limits,
		sem:       semaphore.NewWeighted(int64(maxParallel)),
		logger:    logger,
		now:       time.Now,
	}
}

// Download fetches url into a fresh working directory and checks the result
// against the user's size ceiling. On success the download counter and
// history are updated and the caller owns the returned Delivery. On failure
// nothing is recorded and the working directory is already gone.
//
// platform is only logged; one executor invocation handles every platform.
func (s *DownloadService) Download(ctx context.Context, userID int64, url string, platform domain.Platform) (*Delivery, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, &ExecutorError{Op: "wait for download slot", Err: err}
	}
	defer s.sem.Release(1)

	job, err := s.workspace.Acquire()
	if err != nil {
		return nil, &ExecutorError{Op: "acquire workspace", Err: err}
	}

	log := s.logger.With(
		zap.Int64("user_id", userID),
		zap.String("job_id", job.ID),
		zap.String("platform", string(platform)),
		zap.String("url", url),
	)

	delivery, err := s.run(ctx, log, job, userID, url)
	if err != nil {
		if rmErr := job.Release(); rmErr != nil {
			log.Warn("Failed to remove job dir", zap.Error(rmErr))
		}
		return nil, err
	}
	return delivery, nil
}

func (s *DownloadService) run(ctx context.Context, log *zap.Logger, job *downloader.Job, userID int64, url string) (*Delivery, error) {
	log.Info("Starting download")

	res, err := s.executor.Fetch(ctx, url, job.OutputTemplate())
	if err != nil {
		return nil, &ExecutorError{Op: "run downloader", Err: err}
	}

	path, size, ok, err := job.FindVideo()
	if err != nil {
		return nil, &ExecutorError{Op: "find video", Err: err}
	}
	if !ok {
		return nil, ErrNoVideo
	}
	if res.ExitCode != 0 {
		// file presence decides success
		log.Warn("Video found despite downloader error", zap.Int("exit_code", res.ExitCode))
	}

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, &ExecutorError{Op: "load user", Err: err}
	}
	premium := user != nil && user.Premium

	limit := s.limits.For(premium)
	if Exceeds(size, limit) {
		log.Info("Video over size limit",
			zap.String("size", humanize.IBytes(uint64(size))),
			zap.Int("limit_mb", limit),
			zap.Bool("premium", premium),
		)
		return nil, &SizeLimitError{SizeBytes: size, LimitMB: limit}
	}

	if err := s.recorder.RecordDownload(ctx, userID, url, s.now()); err != nil {
		return nil, &ExecutorError{Op: "record download", Err: err}
	}

	log.Info("Download completed",
		zap.String("size", humanize.IBytes(uint64(size))),
		zap.Duration("took", res.Duration),
	)

	return &Delivery{Path: path, SizeBytes: size, job: job}, nil
}
