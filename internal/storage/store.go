package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/san-kum/sixdof/internal/config"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/scenario"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	jointFile    = "joint.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a stored run.
type RunMetadata struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Joint      string             `json:"joint"`
	Timestamp  time.Time          `json:"timestamp"`
	Method     string             `json:"method"`
	FPS        float64            `json:"fps"`
	ERP        float64            `json:"erp"`
	CFM        float64            `json:"cfm"`
	Iterations int                `json:"iterations"`
	Axis       string             `json:"axis,omitempty"`
	From       float64            `json:"from,omitempty"`
	To         float64            `json:"to,omitempty"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes the metadata, the joint configuration and one CSV line per
// sample into a fresh run directory and returns the run id.
func (s *Store) Save(meta RunMetadata, jc *config.JointConfig, result *scenario.Result) (string, error) {
	meta.ID = uuid.NewString()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Steps = result.Steps
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), data, 0644); err != nil {
		return "", err
	}

	if jc != nil {
		if err := config.Save(filepath.Join(runDir, jointFile), jc); err != nil {
			return "", err
		}
	}

	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// Columns is the CSV header of samples.csv.
func Columns() []string {
	header := []string{"step", "coordinate", "rows", "kinetic_energy", "max_error"}
	for _, ax := range joint.Axes() {
		name := ax.String()
		header = append(header, name+"_value", name+"_state", name+"_error")
	}
	return header
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

func writeSamples(path string, samples []scenario.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns()); err != nil {
		return err
	}
	for i := range samples {
		sm := &samples[i]
		row := []string{
			strconv.Itoa(sm.Step),
			format(sm.Coordinate),
			strconv.Itoa(len(sm.Axes)),
			format(sm.KineticEnergy),
			format(sm.MaxError()),
		}
		for _, st := range sm.Status {
			row = append(row, format(st.Value), strconv.Itoa(int(st.State)), format(st.Error))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadJoint reads the joint configuration stored with a run.
func (s *Store) LoadJoint(runID string) (*config.JointConfig, error) {
	return config.Load(filepath.Join(s.baseDir, runID, jointFile))
}

// LoadSamples returns the header and the numeric rows of samples.csv.
func (s *Store) LoadSamples(runID string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, [][]float64{}, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parse %q: %w", field, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return records[0], rows, nil
}

// Column extracts a named column from LoadSamples output.
func Column(header []string, rows [][]float64, name string) ([]float64, error) {
	idx := -1
	for i, h := range header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row[idx]
	}
	return out, nil
}
