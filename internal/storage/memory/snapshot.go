package memory

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
)

// SnapshotVersion is the current snapshot file format.
const SnapshotVersion = 1

type snapshot struct {
	Version int               `json:"version"`
	Events  []json.RawMessage `json:"events"`
}

var gzipMagic = []byte{0x1f, 0x8b}

func (b *Backend) compressed() bool {
	return b.cfg.Compress || strings.HasSuffix(b.cfg.Path, ".gz")
}

// persistLocked writes the snapshot atomically. Caller holds b.mu.
func (b *Backend) persistLocked() error {
	if b.cfg.Path == "" {
		return nil
	}

	ids := make([]string, 0, len(b.events))
	for id := range b.events {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	snap := snapshot{Version: SnapshotVersion, Events: make([]json.RawMessage, 0, len(ids))}
	for _, id := range ids {
		snap.Events = append(snap.Events, b.events[id])
	}

	data, err := sonic.ConfigStd.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if b.compressed() {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return fmt.Errorf("compressing snapshot: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("compressing snapshot: %w", err)
		}
		data = buf.Bytes()
	}

	if err := writeFileAtomic(b.cfg.Path, data); err != nil {
		return err
	}
	b.lastSnapshot = data
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// reload replaces the in-memory events with the snapshot file contents.
// A missing file is an empty store.
func (b *Backend) reload() error {
	data, err := os.ReadFile(b.cfg.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	b.mu.RLock()
	same := bytes.Equal(data, b.lastSnapshot)
	b.mu.RUnlock()
	if same {
		return nil
	}

	events, err := parseSnapshot(data)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", b.cfg.Path, err)
	}

	b.mu.Lock()
	b.events = events
	b.lastSnapshot = data
	b.mu.Unlock()
	b.logger.Info("loaded event snapshot", "path", b.cfg.Path, "events", len(events))
	return nil
}

func parseSnapshot(data []byte) (map[string][]byte, error) {
	raw := data
	if bytes.HasPrefix(data, gzipMagic) {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decompressing: %w", err)
		}
		defer gz.Close()
		if raw, err = io.ReadAll(gz); err != nil {
			return nil, fmt.Errorf("decompressing: %w", err)
		}
	}

	var snap snapshot
	if err := sonic.ConfigStd.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	events := make(map[string][]byte, len(snap.Events))
	for _, msg := range snap.Events {
		ev, err := decode(msg)
		if err != nil {
			return nil, err
		}
		if ev.ID == "" {
			return nil, errors.New("event without id")
		}
		events[ev.ID] = []byte(msg)
	}
	return events, nil
}
