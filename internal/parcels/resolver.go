package parcels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb/geojson"

	"github.com/dixmont/taxmap/internal/kml"
	"github.com/dixmont/taxmap/internal/observability"
)

// CacheFileName is the fixed name of the write-through cache file inside the
// data directory.
const CacheFileName = "parcels.geojson"

// Fetcher retrieves the remote KMZ archive.
type Fetcher interface {
	FetchArchive(ctx context.Context) ([]byte, error)
}

// Resolver decides where parcel data comes from, one decision per session:
// remote fetch, then any local KMZ in the data directory, then a stale cache
// file, then an empty collection. It owns the provenance record and the
// on-disk cache file; a mutex serializes resolution passes so concurrent
// requests cannot double-fetch or interleave cache writes.
//
// Resolve never returns an error. Every failure degrades to the next source
// in the chain and is recorded in the provenance record instead.
type Resolver struct {
	fetcher  Fetcher
	dataDir  string
	minBytes int
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu   sync.Mutex
	info SourceInfo
}

// NewResolver creates a Resolver over the given data directory. minBytes is
// the smallest remote response accepted as a real archive; anything smaller
// is treated as an error page and rejected.
func NewResolver(fetcher Fetcher, dataDir string, minBytes int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		fetcher:  fetcher,
		dataDir:  dataDir,
		minBytes: minBytes,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		info:     SourceInfo{Source: SourceUnknown},
	}
}

// Info returns a copy of the current provenance record.
func (r *Resolver) Info() SourceInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

// Resolve returns the parcel collection, running the acquisition chain if the
// source has not been decided yet this session.
func (r *Resolver) Resolve(ctx context.Context) *geojson.FeatureCollection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(ctx)
}

// Refresh discards the session's source decision and the cache file, then
// re-runs the acquisition chain.
func (r *Resolver) Refresh(ctx context.Context) *geojson.FeatureCollection {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.info = SourceInfo{Source: SourceUnknown}
	if err := os.Remove(r.cachePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("could not remove cache file", "path", r.cachePath(), "error", err)
	}
	return r.resolveLocked(ctx)
}

func (r *Resolver) resolveLocked(ctx context.Context) *geojson.FeatureCollection {
	start := r.clock.Now()
	defer func() {
		r.metrics.LoadDuration.Observe(r.clock.Since(start).Seconds())
	}()

	// Fast path: the source was decided earlier this session and the cache
	// file is still there, so serve it without re-deciding.
	if r.info.Source != SourceUnknown {
		if fc, err := r.readCache(); err == nil {
			return fc
		}
	}

	if fc := r.loadRemote(ctx); fc != nil {
		return fc
	}
	if fc := r.loadLocal(); fc != nil {
		return fc
	}
	if fc := r.loadStaleCache(); fc != nil {
		return fc
	}

	r.info.Source = SourceNone
	r.info.Error = "No data source available"
	r.metrics.ParcelsLoaded.Set(0)
	r.logger.Error("no parcel data source available")
	return geojson.NewFeatureCollection()
}

// loadRemote attempts the remote fetch. Timeouts, transport failures,
// undersized bodies, unreadable archives, and zero-feature parses all record
// an error in provenance and return nil so the chain falls through.
func (r *Resolver) loadRemote(ctx context.Context) *geojson.FeatureCollection {
	body, err := r.fetcher.FetchArchive(ctx)
	if err != nil {
		r.noteRemoteFailure(fetchErrorMessage(err))
		return nil
	}
	if len(body) < r.minBytes {
		r.noteRemoteFailure(fmt.Sprintf("remote file too small (%d bytes)", len(body)))
		return nil
	}

	features, err := kml.ParseArchive(body, r.logger)
	if err != nil {
		r.noteRemoteFailure(fmt.Sprintf("remote archive unreadable: %v", err))
		return nil
	}
	if len(features) == 0 {
		r.noteRemoteFailure("no features parsed from remote archive")
		return nil
	}

	now := r.clock.Now()
	r.info = SourceInfo{Source: SourceRemote, LoadedAt: &now, ParcelCount: len(features)}
	r.metrics.LoadAttempts.WithLabelValues("remote", "success").Inc()
	r.metrics.ParcelsLoaded.Set(float64(len(features)))
	r.logger.Info("loaded parcels from remote source", "count", len(features))

	fc := collect(features)
	r.writeCache(fc)
	return fc
}

// loadLocal scans the data directory for KMZ archives and uses the first one
// that yields at least one feature. The earlier remote error is deliberately
// left in the provenance record so diagnostics show why remote was skipped.
func (r *Resolver) loadLocal() *geojson.FeatureCollection {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		r.logger.Warn("could not scan data directory", "dir", r.dataDir, "error", err)
		return nil
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".kmz") {
			continue
		}
		path := filepath.Join(r.dataDir, entry.Name())
		features, err := kml.ParseArchiveFile(path, r.logger)
		if err != nil {
			r.metrics.LoadAttempts.WithLabelValues("local", "failure").Inc()
			r.logger.Warn("could not parse local archive", "path", path, "error", err)
			continue
		}
		if len(features) == 0 {
			r.metrics.LoadAttempts.WithLabelValues("local", "failure").Inc()
			continue
		}

		now := r.clock.Now()
		r.info.Source = SourceLocal
		r.info.LoadedAt = &now
		r.info.ParcelCount = len(features)
		r.metrics.LoadAttempts.WithLabelValues("local", "success").Inc()
		r.metrics.ParcelsLoaded.Set(float64(len(features)))
		r.logger.Info("loaded parcels from local archive", "path", path, "count", len(features))

		fc := collect(features)
		r.writeCache(fc)
		return fc
	}
	return nil
}

// loadStaleCache serves a cache file written by an earlier process when
// nothing fresher is available. The load time of that data is unknown, so
// LoadedAt stays unset.
func (r *Resolver) loadStaleCache() *geojson.FeatureCollection {
	fc, err := r.readCache()
	if err != nil {
		r.metrics.LoadAttempts.WithLabelValues("cache", "failure").Inc()
		return nil
	}

	r.info.Source = SourceCached
	r.info.ParcelCount = len(fc.Features)
	r.metrics.LoadAttempts.WithLabelValues("cache", "success").Inc()
	r.metrics.ParcelsLoaded.Set(float64(len(fc.Features)))
	r.logger.Info("serving stale cache file", "count", len(fc.Features))
	return fc
}

func (r *Resolver) noteRemoteFailure(msg string) {
	r.info.Error = msg
	r.metrics.LoadAttempts.WithLabelValues("remote", "failure").Inc()
	r.logger.Warn("remote source unavailable", "reason", msg)
}

func (r *Resolver) cachePath() string {
	return filepath.Join(r.dataDir, CacheFileName)
}

func (r *Resolver) readCache() (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalFeatureCollection(data)
}

// writeCache persists the collection best-effort; a failure is logged, never fatal.
func (r *Resolver) writeCache(fc *geojson.FeatureCollection) {
	data, err := json.Marshal(fc)
	if err == nil {
		err = os.WriteFile(r.cachePath(), data, 0o644)
	}
	if err != nil {
		r.metrics.CacheWrites.WithLabelValues("failure").Inc()
		r.logger.Warn("could not write cache file", "path", r.cachePath(), "error", err)
		return
	}
	r.metrics.CacheWrites.WithLabelValues("success").Inc()
}

// fetchErrorMessage keeps timeout failures distinguishable in provenance.
func fetchErrorMessage(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "remote fetch timed out"
	}
	return fmt.Sprintf("remote fetch failed: %v", err)
}

func collect(features []*geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = features
	return fc
}
