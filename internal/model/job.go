package model

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "Pending"
	JobStatusRunning   JobStatus = "Running"
	JobStatusCompleted JobStatus = "Completed"
	JobStatusFailed    JobStatus = "Failed"
	JobStatusCancelled JobStatus = "Cancelled"
)

type ConversionJob struct {
	ID          string
	Name        string
	Status      JobStatus
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	Progress    float64
	Threads     int
	SourceFile  string
	TargetFile  string
	Errors      []JobError
	Batches     []BatchInfo
}

type JobError struct {
	Timestamp  time.Time
	Message    string
	Details    string
	StackTrace string
}

type BatchInfo struct {
	ID             string
	TotalItems     int
	ProcessedItems int
	FailedItems    int
	StartTime      time.Time
	EndTime        time.Time
}

func (j ConversionJob) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.CompletedAt.IsZero() {
		return 0
	}
	return j.CompletedAt.Sub(j.StartedAt)
}

func (j ConversionJob) HasErrors() bool {
	return len(j.Errors) > 0
}

func (j ConversionJob) TotalBatches() int {
	return len(j.Batches)
}

func (j ConversionJob) CompletedBatches() int {
	n := 0
	for _, b := range j.Batches {
		if !b.EndTime.IsZero() {
			n++
		}
	}
	return n
}

func (j ConversionJob) IsTerminal() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

func (b BatchInfo) ProgressPercent() float64 {
	if b.TotalItems == 0 {
		return 0
	}
	return float64(b.ProcessedItems) / float64(b.TotalItems) * 100
}
