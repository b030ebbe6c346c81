package storage

import (
	"io"
)

// ExportData is the JSON form of a stored run.
type ExportData struct {
	RunMetadata
	Columns []string    `json:"columns"`
	Samples [][]float64 `json:"samples"`
}

// ExportJSON writes a run's metadata and samples to w. Metadata alone is
// written when samples is false.
func (s *Store) ExportJSON(w io.Writer, runID string, samples bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	data := ExportData{RunMetadata: *meta}
	if samples {
		data.Columns, data.Samples, err = s.LoadSamples(runID)
		if err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
