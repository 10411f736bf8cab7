package model

import "time"

// RunSummary captures metrics from a single pipeline run.
type RunSummary struct {
	RunID        string
	InputPath    string
	InputSHA256  string
	OutputPath   string
	OutputSHA256 string
	ParquetPath  string
	Seed         uint32

	RowsRead          int64
	ColumnsPruned     int
	RowsExpired       int64
	RowsDeduplicated  int64
	RowsInvalidGender int64
	RowsWritten       int64
	RowsPublished     int64

	PatientsDistinct  int64
	GroupsReadmitOne  int64
	GroupsReadmitMany int64
	GroupsReadmitNone int64

	DurationLoad      time.Duration
	DurationTransform time.Duration
	DurationWrite     time.Duration
	DurationPublish   time.Duration
	DurationTotal     time.Duration
}
