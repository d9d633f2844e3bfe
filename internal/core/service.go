package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/autochart/internal/logging"
	"github.com/google/uuid"
)

// DefaultPassTimeout bounds one ingest, classify and select pass.
const DefaultPassTimeout = 2 * time.Minute

// historyTimeout bounds the best-effort history write after a pass.
const historyTimeout = 5 * time.Second

// Upload is one file as received from the client.
type Upload struct {
	FileName string
	Data     []byte
}

// PassResult is everything one pass produced.
type PassResult struct {
	PassID         string         `json:"pass_id"`
	FileName       string         `json:"file_name"`
	Format         string         `json:"format"`
	Dataset        *Dataset       `json:"-"`
	Classification Classification `json:"classification"`
	Chart          *ChartSpec     `json:"chart,omitempty"`
	HasChart       bool           `json:"has_chart"`
	Empty          bool           `json:"empty"`
	Duration       time.Duration  `json:"duration_ns"`
}

// Err reports ErrEmptyDataset for a pass that ingested zero rows.
func (r *PassResult) Err() error {
	if r != nil && r.Empty {
		return fmt.Errorf("%s: %w", r.FileName, ErrEmptyDataset)
	}
	return nil
}

// Options configures a Service. Zero values take the defaults.
type Options struct {
	MaxFileSize int64         // Bytes; 0 disables the check
	PassTimeout time.Duration // Default: DefaultPassTimeout
	Limiter     *PassLimiter  // Default: NewPassLimiter(0, 0)
	History     HistoryStore  // Default: NoopHistory
	Metrics     *Metrics      // Nil records nothing
}

// Service runs passes. It is safe for concurrent use; passes share nothing
// but the limiter, metrics and history store.
type Service struct {
	maxFileSize int64
	passTimeout time.Duration
	limiter     *PassLimiter
	history     HistoryStore
	metrics     *Metrics
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	s := &Service{
		maxFileSize: opts.MaxFileSize,
		passTimeout: opts.PassTimeout,
		limiter:     opts.Limiter,
		history:     opts.History,
		metrics:     opts.Metrics,
	}
	if s.passTimeout <= 0 {
		s.passTimeout = DefaultPassTimeout
	}
	if s.limiter == nil {
		s.limiter = NewPassLimiter(0, 0)
	}
	if s.history == nil {
		s.history = NoopHistory{}
	}
	return s
}

// Analyze runs one pass over up: ingest, classify, then select a chart with
// the session's themes.
//
// A file that ingests to zero rows returns both the result, so the preview
// can still be shown, and an error wrapping ErrEmptyDataset. Every other
// failure returns a nil result.
func (s *Service) Analyze(ctx context.Context, sess Session, up Upload) (*PassResult, error) {
	start := time.Now()
	passID := uuid.NewString()
	format := ExtensionFromFilename(up.FileName)
	ctx = logging.WithPassID(ctx, passID)

	s.metrics.passStarted()
	defer s.metrics.passFinished()

	res, err := s.run(ctx, sess, up, passID, format)
	elapsed := time.Since(start)
	if res != nil {
		res.Duration = elapsed
	}

	s.finish(ctx, passID, up.FileName, format, res, err, elapsed)
	return res, err
}

func (s *Service) run(ctx context.Context, sess Session, up Upload, passID, format string) (*PassResult, error) {
	if len(up.Data) == 0 && up.FileName == "" {
		return nil, errors.New("no file provided")
	}
	if err := CheckSize(int64(len(up.Data)), s.maxFileSize); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.passTimeout)
	defer cancel()

	ds, err := Ingest(ctx, up.Data, format)
	if err != nil {
		return nil, err
	}
	ds.Name = up.FileName
	s.metrics.observeDataset(ds)

	res := &PassResult{
		PassID:   passID,
		FileName: up.FileName,
		Format:   format,
		Dataset:  ds,
	}
	if ds.Empty() {
		res.Empty = true
		res.Classification = Classify(ds)
		return res, res.Err()
	}

	res.Classification = Classify(ds)
	res.Chart, res.HasChart = SelectChart(ds, res.Classification, sess.Palette(), sess.Scale())
	return res, nil
}

// finish logs the pass and records metrics and history. History failures
// are logged and otherwise ignored.
func (s *Service) finish(ctx context.Context, passID, fileName, format string, res *PassResult, err error, elapsed time.Duration) {
	rec := PassRecord{
		ID:         passID,
		FileName:   fileName,
		Format:     format,
		Status:     PassOK,
		DurationMS: elapsed.Milliseconds(),
		IPAddress:  IPAddressFromContext(ctx),
		UserAgent:  UserAgentFromContext(ctx),
	}
	if res != nil && res.Dataset != nil {
		rec.Rows = res.Dataset.NumRows()
		rec.Columns = res.Dataset.NumColumns()
		if res.HasChart {
			rec.Chart = res.Chart.Kind
		}
	}
	switch {
	case res != nil && res.Empty:
		rec.Status = PassEmpty
		rec.ErrorCode = MapError(err).Code
	case err != nil:
		rec.Status = PassError
		rec.ErrorCode = MapError(err).Code
	}

	logger := logging.WithFields(ctx, "file", fileName, "format", format)
	switch rec.Status {
	case PassError:
		logger.Warn("pass failed", "error", err, "code", rec.ErrorCode, "duration_ms", rec.DurationMS)
	case PassEmpty:
		logger.Info("pass produced empty dataset", "columns", rec.Columns, "duration_ms", rec.DurationMS)
	default:
		logger.Info("pass completed",
			"rows", rec.Rows,
			"columns", rec.Columns,
			"chart", string(rec.Chart),
			"duration_ms", rec.DurationMS,
		)
	}

	s.metrics.observePass(format, rec.Status, elapsed)
	if rec.Chart != "" {
		s.metrics.observeChart(rec.Chart)
	}

	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
	defer cancel()
	if herr := s.history.Record(hctx, rec); herr != nil {
		logger.Warn("failed to record pass history", "error", herr)
	}
}

// RecentPasses returns up to limit history records, newest first.
func (s *Service) RecentPasses(ctx context.Context, limit int) ([]PassRecord, error) {
	return s.history.Recent(ctx, limit)
}

// History returns the configured history store.
func (s *Service) History() HistoryStore {
	return s.history
}

// LimiterStatus returns the pass limiter state.
func (s *Service) LimiterStatus() PassLimiterStatus {
	return s.limiter.Status()
}

// WaitForPasses blocks until no pass is running or ctx is done.
func (s *Service) WaitForPasses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
