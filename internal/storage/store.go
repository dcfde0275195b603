package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rossv/designstorms-sub000/internal/export"
	"github.com/rossv/designstorms-sub000/internal/storm"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "storm.csv"
)

type Store struct {
	baseDir string
	clock   clockwork.Clock
}

// New returns a store rooted at baseDir. A nil clock uses the wall clock.
func New(baseDir string, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{baseDir: baseDir, clock: clock}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Params    storm.Params `json:"params"`
	Stats     storm.Stats  `json:"stats"`

	Distribution      string   `json:"distribution"`
	EffectiveTimestep float64  `json:"effective_timestep_minutes"`
	TimestepLocked    bool     `json:"timestep_locked"`
	SmoothingApplied  bool     `json:"smoothing_applied"`
	Fallbacks         []string `json:"fallbacks,omitempty"`
}

// Save writes the run metadata and series under a new run directory and
// returns the run ID.
func (s *Store) Save(p storm.Params, r storm.Result) (string, error) {
	now := s.clock.Now()
	runID, runDir, err := s.reserve(now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                runID,
		Timestamp:         now.UTC(),
		Params:            p,
		Stats:             r.Stats(),
		Distribution:      r.Distribution,
		EffectiveTimestep: r.EffectiveTimestep,
		TimestepLocked:    r.TimestepLocked,
		SmoothingApplied:  r.SmoothingApplied,
		Fallbacks:         r.Fallbacks,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.WriteCSV(csvFile, r, time.Time{}); err != nil {
		return "", err
	}
	return runID, nil
}

// reserve creates a fresh run directory, suffixing the ID when several runs
// land in the same second.
func (s *Store) reserve(now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("storm_%d", now.Unix())
	for i := 0; i < 1000; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("no free run id for %s", base)
}

// List returns the stored runs, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back the stored series. Flags and fallbacks come from the
// metadata.
func (s *Store) LoadSeries(runID string) (storm.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return storm.Result{}, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return storm.Result{}, err
	}
	defer file.Close()

	r, err := export.ReadCSV(file)
	if err != nil {
		return storm.Result{}, fmt.Errorf("run %s: %w", runID, err)
	}
	r.Distribution = meta.Distribution
	r.EffectiveTimestep = meta.EffectiveTimestep
	r.TimestepLocked = meta.TimestepLocked
	r.SmoothingApplied = meta.SmoothingApplied
	r.Fallbacks = meta.Fallbacks
	return r, nil
}
