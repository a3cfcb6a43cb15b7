// Package storage persists recorded runs to disk: one directory per
// run holding metadata.json and the series CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pendlab/internal/export"
	"pendlab/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

// RunMetadata is the queryable part of a stored run; the series lives
// next to it in series.csv.
type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	FixedDt   float64            `json:"fixed_dt"`
	Bodies    int                `json:"bodies"`
	Steps     int                `json:"steps"`
	Params    map[string]float64 `json:"params"`
}

// Save writes an export snapshot as a new run directory and returns
// the run id.
func (s *Store) Save(data *sim.ExportData) (string, error) {
	runID := fmt.Sprintf("%s_%d", data.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     data.Model,
		Timestamp: time.Now(),
		FixedDt:   data.FixedDt,
		Bodies:    data.Bodies,
		Steps:     data.Steps,
		Params:    data.Params,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.WriteCSV(csvFile, data); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	raw, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// WriteMetadata prints run metadata as indented JSON.
func WriteMetadata(w io.Writer, meta *RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// CopySeries streams a run's raw CSV to w.
func (s *Store) CopySeries(w io.Writer, runID string) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// WriteRunJSON emits a stored run as one JSON document: the metadata
// plus the series as a column name to values map.
func (s *Store) WriteRunJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	header, cols, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	series := make(map[string][]float64, len(header))
	for i, name := range header {
		series[name] = cols[i]
	}

	doc := struct {
		Metadata *RunMetadata         `json:"metadata"`
		Series   map[string][]float64 `json:"series"`
	}{meta, series}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// LoadSeries reads a run's CSV back as a header plus column-major
// float data, the shape the plotting commands want.
func (s *Store) LoadSeries(runID string) ([]string, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}

	header := records[0]
	cols := make([][]float64, len(header))
	for i := range cols {
		cols[i] = make([]float64, 0, len(records)-1)
	}

	for _, rec := range records[1:] {
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("run %s: bad value %q: %w", runID, field, err)
			}
			cols[j] = append(cols[j], v)
		}
	}
	return header, cols, nil
}
