package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"task-tracker-api/internal/models"
)

// CSVHeader is the first line of every snapshot file.
var CSVHeader = []string{"id", "type", "name", "status", "description", "start time", "duration", "epic"}

// nullValue marks an absent start time, duration or epic.
const nullValue = "null"

const (
	colID = iota
	colType
	colName
	colStatus
	colDescription
	colStart
	colDuration
	colEpic
)

// CSVFile stores the snapshot as a CSV file. Tasks and epics use seven columns, subtasks add
// the owning epic id. Times use models.TimeLayout in Location; durations are whole minutes.
type CSVFile struct {
	Path     string
	Location *time.Location
}

func NewCSVFile(path string) *CSVFile {
	return &CSVFile{Path: path, Location: time.Local}
}

// Load reads the file. A missing file is an empty store.
func (f *CSVFile) Load() ([]models.Item, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	items, err := f.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return items, nil
}

// Decode parses CSV content from r.
func (f *CSVFile) Decode(r io.Reader) ([]models.Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var items []models.Item
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && len(row) > 0 && row[colID] == CSVHeader[colID] {
			continue
		}
		rec, err := f.parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		it, err := rec.Item()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, it)
	}
}

func (f *CSVFile) parseRow(row []string) (models.ItemRecord, error) {
	var rec models.ItemRecord
	if len(row) < colEpic {
		return rec, fmt.Errorf("expected at least %d columns, got %d", colEpic, len(row))
	}
	id, err := strconv.Atoi(row[colID])
	if err != nil {
		return rec, fmt.Errorf("id: %w", err)
	}
	kind, err := models.ParseKind(row[colType])
	if err != nil {
		return rec, err
	}
	rec.ID = id
	rec.Kind = kind
	rec.Name = row[colName]
	rec.Status = models.Status(row[colStatus])
	rec.Description = row[colDescription]

	if v := row[colStart]; v != nullValue && v != "" {
		start, err := time.ParseInLocation(models.TimeLayout, v, f.location())
		if err != nil {
			return rec, fmt.Errorf("start time: %w", err)
		}
		rec.StartTime = &start
	}
	if v := row[colDuration]; v != nullValue && v != "" {
		minutes, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return rec, fmt.Errorf("duration: %w", err)
		}
		rec.DurationMinutes = &minutes
	}
	if len(row) > colEpic && row[colEpic] != nullValue && row[colEpic] != "" {
		epicID, err := strconv.Atoi(row[colEpic])
		if err != nil {
			return rec, fmt.Errorf("epic: %w", err)
		}
		rec.EpicID = &epicID
	}
	return rec, nil
}

// Save rewrites the whole file. The content goes to a temporary file first and replaces the
// old one with a rename, so a failed save leaves the previous snapshot intact.
func (f *CSVFile) Save(items []models.Item) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	defer os.Remove(tmp.Name())

	if err := f.Encode(tmp, items); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	return nil
}

// Encode writes items as CSV to w, header first.
func (f *CSVFile) Encode(w io.Writer, items []models.Item) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, rec := range toRecords(items) {
		if err := writer.Write(f.formatRow(rec)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (f *CSVFile) formatRow(rec models.ItemRecord) []string {
	start, duration := nullValue, nullValue
	if rec.StartTime != nil {
		start = rec.StartTime.In(f.location()).Format(models.TimeLayout)
	}
	if rec.DurationMinutes != nil {
		duration = strconv.FormatInt(*rec.DurationMinutes, 10)
	}
	row := []string{
		strconv.Itoa(rec.ID),
		string(rec.Kind),
		rec.Name,
		string(rec.Status),
		rec.Description,
		start,
		duration,
	}
	if rec.EpicID != nil {
		row = append(row, strconv.Itoa(*rec.EpicID))
	}
	return row
}

func (f *CSVFile) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f *CSVFile) Close() error { return nil }
