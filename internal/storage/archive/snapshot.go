package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/newthinker/screener/internal/core"
	"go.uber.org/zap"
)

// Config selects the archive backend.
type Config struct {
	Type string // "none", "localfs" or "s3"
	Path string
	S3   S3Config
}

// New builds the Storage for cfg.
func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "none":
		return Discard{}, nil
	case "localfs":
		if cfg.Path == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("archive path required for localfs"))
		}
		return NewLocalFS(cfg.Path)
	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("archive s3 bucket required"))
		}
		return NewS3(cfg.S3)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown archive type %q", cfg.Type))
	}
}

// Snapshot is one archived scan.
type Snapshot struct {
	RunID      string          `json:"run_id"`
	ArchivedAt time.Time       `json:"archived_at"`
	Result     core.ScanResult `json:"result"`
}

// Scans writes successful scan payloads as an audit trail. Snapshots are
// never loaded back into the dashboard.
type Scans struct {
	store  Storage
	logger *zap.Logger
	now    func() time.Time
}

// NewScans wraps a storage backend.
func NewScans(store Storage, logger *zap.Logger) *Scans {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scans{store: store, logger: logger, now: time.Now}
}

// SnapshotPath returns scans/YYYY/MM/DD/<run id>.json.
func SnapshotPath(at time.Time, runID string) string {
	return path.Join("scans", at.UTC().Format("2006/01/02"), runID+".json")
}

// Save archives one scan result.
func (s *Scans) Save(ctx context.Context, runID string, result core.ScanResult) error {
	at := s.now()
	data, err := json.Marshal(Snapshot{RunID: runID, ArchivedAt: at.UTC(), Result: result})
	if err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}

	p := SnapshotPath(at, runID)
	if err := s.store.Write(ctx, p, data); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}

	s.logger.Debug("scan archived", zap.String("path", p), zap.Int("stocks", len(result.Stocks)))
	return nil
}

// Load reads a snapshot back, for inspection tooling.
func (s *Scans) Load(ctx context.Context, p string) (*Snapshot, error) {
	data, err := s.store.Read(ctx, p)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return &snap, nil
}

// List returns archived snapshot paths for a day.
func (s *Scans) List(ctx context.Context, day time.Time) ([]string, error) {
	return s.store.List(ctx, path.Join("scans", day.UTC().Format("2006/01/02")))
}
