// Package storage persists completed runs under a data directory, one
// subdirectory per run holding metadata.json and states.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"marinesim/internal/sim"
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Vehicle   string             `json:"vehicle"`
	Mode      string             `json:"mode"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Column names for the fixed history layout with one actuator channel.
var columns = []string{
	"x", "y", "z", "phi", "theta", "psi",
	"u", "v", "w", "p", "q", "r",
}

func header(dimU int) []string {
	h := []string{"time"}
	h = append(h, columns...)
	for i := 0; i < dimU; i++ {
		h = append(h, fmt.Sprintf("u_control%d", i))
	}
	for i := 0; i < dimU; i++ {
		h = append(h, fmt.Sprintf("u_actual%d", i))
	}
	return h
}

func (s *Store) Save(vehicleName, mode string, dt, duration float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", vehicleName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Vehicle:   vehicleName,
		Mode:      mode,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteCSV streams the time vector and history table as CSV with the fixed
// column layout [time | eta | nu | u_control | u_actual].
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if result.Data == nil || result.Data.Len() == 0 {
		return nil
	}

	if err := w.Write(header(result.Data.DimU())); err != nil {
		return err
	}

	for i := 0; i < result.Data.Len(); i++ {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, val := range result.Data.Row(i) {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	// Directory-entry order is filesystem dependent; newest first.
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads a run's history table back as rows plus the time vector.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		row := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return rows, times, nil
}

type exportData struct {
	ID       string             `json:"id"`
	Vehicle  string             `json:"vehicle"`
	Mode     string             `json:"mode"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Columns  []string           `json:"columns"`
	Times    []float64          `json:"times"`
	Rows     [][]float64        `json:"rows"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a saved run in a single self-describing JSON document.
func (s *Store) ExportJSON(out io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rows, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	dimU := 0
	if len(rows) > 0 && len(rows[0]) > 2*sim.DOF {
		dimU = (len(rows[0]) - 2*sim.DOF) / 2
	}

	data := exportData{
		ID:       meta.ID,
		Vehicle:  meta.Vehicle,
		Mode:     meta.Mode,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Columns:  header(dimU)[1:],
		Times:    times,
		Rows:     rows,
		Metrics:  meta.Metrics,
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
