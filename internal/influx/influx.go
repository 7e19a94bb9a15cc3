package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/irlens/atlas/internal/config"
	"github.com/irlens/atlas/internal/resolve"
)

// ResolutionMeasurement is the measurement written for each pipeline run.
const ResolutionMeasurement = "resolution"

// retention of the metrics bucket when it has to be created
const bucketRetentionSeconds = 60 * 60 * 24 * 90

// ErrDisabled is returned by Connect when influx.enabled is false.
var ErrDisabled = errors.New("influx is disabled")

// Manager handles InfluxDB connections and writes. When the server cannot be
// reached, points go to a gzip'd line-protocol backup file instead.
type Manager struct {
	Client     influxdb2.Client
	Writer     influxdb2_api.WriteAPI
	IsValid    bool
	Logger     zerolog.Logger
	BackupPath string

	cfg        config.InfluxConfig
	mu         sync.Mutex
	backupFile *os.File
	backup     *gzip.Writer
}

var _ resolve.Recorder = (*Manager)(nil)

// NewManager creates a new InfluxDB manager.
func NewManager(cfg config.InfluxConfig, log zerolog.Logger, backupPath string) *Manager {
	return &Manager{cfg: cfg, Logger: log, BackupPath: backupPath}
}

// Connect establishes a connection to InfluxDB, falling back to the backup file.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.cfg.URL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Str("backupPath", m.BackupPath).
			Msg("InfluxDB unreachable, writing to backup file")
		return m.openBackup()
	}

	if err := m.ensureBucket(ctx); err != nil {
		return err
	}
	m.Writer = m.Client.WriteAPI(m.cfg.Org, m.cfg.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", m.cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(m.Writer.Errors())

	m.IsValid = true
	m.Logger.Info().Str("url", m.cfg.URL()).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup != nil {
		return nil
	}
	if m.BackupPath == "" {
		return errors.New("influx unreachable and no backup path set")
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.backup = gzip.NewWriter(file)
	return nil
}

func (m *Manager) ensureBucket(ctx context.Context) error {
	orgs := m.Client.OrganizationsAPI()
	org, err := orgs.FindOrganizationByName(ctx, m.cfg.Org)
	if err != nil {
		m.Logger.Info().Str("org", m.cfg.Org).Msg("Organization not found, creating")
		if org, err = orgs.CreateOrganizationWithName(ctx, m.cfg.Org); err != nil {
			return fmt.Errorf("creating organization %s: %w", m.cfg.Org, err)
		}
	}

	buckets := m.Client.BucketsAPI()
	if _, err := buckets.FindBucketByName(ctx, m.cfg.Bucket); err == nil {
		return nil
	}
	m.Logger.Info().Str("bucket", m.cfg.Bucket).Msg("Bucket not found, creating")
	rule := domain.RetentionRuleTypeExpire
	_, err = buckets.CreateBucketWithName(ctx, org, m.cfg.Bucket, domain.RetentionRule{
		Type:         &rule,
		EverySeconds: bucketRetentionSeconds,
	})
	if err != nil {
		return fmt.Errorf("creating bucket %s: %w", m.cfg.Bucket, err)
	}
	return nil
}

// ResolutionPoint converts pipeline stats to a point.
func ResolutionPoint(s resolve.Stats, at time.Time) *influxdb2_write.Point {
	point := influxdb2_write.NewPointWithMeasurement(ResolutionMeasurement).
		AddTag("event", s.EventID).
		AddTag("period", s.PeriodID).
		AddTag("approximate", strconv.FormatBool(s.ApproximateBorders)).
		AddField("highlighted", s.Highlighted).
		AddField("markers", s.Markers).
		AddField("connections", s.Connections).
		AddField("shapes", s.Shapes).
		AddField("unresolved", s.Unresolved).
		AddField("duration_ms", float64(s.Duration)/float64(time.Millisecond)).
		SetTime(at)
	if s.PointID != "" {
		point.AddTag("point", s.PointID)
	}
	return point
}

// RecordResolution writes one resolution point.
func (m *Manager) RecordResolution(ctx context.Context, s resolve.Stats) error {
	return m.WritePoint(ctx, ResolutionPoint(s, time.Now()))
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(_ context.Context, point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup == nil {
		return errors.New("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := strings.TrimSuffix(influxdb2_write.PointToLineProtocol(point, time.Nanosecond), "\n")
	if _, err := m.backup.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the client and backup file.
func (m *Manager) Close() error {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup == nil {
		return nil
	}
	err := errors.Join(m.backup.Close(), m.backupFile.Close())
	m.backup, m.backupFile = nil, nil
	return err
}
