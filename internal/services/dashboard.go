package services

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"salesdash/internal/models"
)

// Dashboard owns the loaded RowSet. The set is replaced wholesale by a load
// and read-only afterwards, so a RWMutex around the swap is the only
// coordination needed; every request works on the snapshot it reads.
type Dashboard struct {
	mu       sync.RWMutex
	rows     models.RowSet
	source   string
	loadedAt time.Time
	logger   *slog.Logger
}

func NewDashboard(logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{logger: logger}
}

// UseSample replaces the dataset with deterministic synthetic data.
func (d *Dashboard) UseSample(days int, seed int64) {
	rows := GenerateSample(days, seed)
	d.install(rows, "sample")
	d.logger.Info("sample data generated", "days", days, "seed", seed, "records", rows.Len())
}

// LoadUpload parses an uploaded CSV or XLSX file and installs the result.
// A parse failure installs an empty RowSet and returns the load error: the
// dashboard keeps running on empty data rather than crashing or holding on
// to the previous dataset the user meant to replace.
func (d *Dashboard) LoadUpload(r io.Reader, filename string) error {
	rows, err := LoadFile(r, filename)
	if err != nil {
		d.install(models.RowSet{}, filename)
		d.logger.Warn("upload could not be parsed", "filename", filename, "error", err)
		return err
	}

	d.install(rows, filename)
	d.logger.Info("upload loaded", "filename", filename, "records", rows.Len(),
		"has_city", rows.HasCity, "has_geo", rows.HasGeo)
	return nil
}

// LoadPath loads a file from disk, for seeding the dashboard at startup.
func (d *Dashboard) LoadPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		d.install(models.RowSet{}, path)
		return err
	}
	defer f.Close()

	return d.LoadUpload(f, filepath.Base(path))
}

func (d *Dashboard) install(rows models.RowSet, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows = rows
	d.source = source
	d.loadedAt = time.Now()
}

// Rows returns the current dataset snapshot. Callers must treat it as
// read-only.
func (d *Dashboard) Rows() models.RowSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rows
}

// Stats reports dataset metadata for the admin endpoint.
func (d *Dashboard) Stats() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	regions, products := Labels(d.rows)
	stats := map[string]any{
		"record_count": d.rows.Len(),
		"source":       d.source,
		"loaded_at":    d.loadedAt,
		"regions":      len(regions),
		"products":     len(products),
		"has_city":     d.rows.HasCity,
		"has_geo":      d.rows.HasGeo,
	}

	if from, to, ok := DateSpan(d.rows); ok {
		stats["date_from"] = from.Format(dateFormat)
		stats["date_to"] = to.Format(dateFormat)
	}

	return stats
}
