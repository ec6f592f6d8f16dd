package model

import "time"

type JobKind string

const (
	JobThumbnail JobKind = "thumbnail"
	JobWelcome   JobKind = "welcome"
)

// Job is the message carried by a queue. FileID is only set for
// thumbnail jobs
type Job struct {
	Kind       JobKind   `json:"kind"`
	FileID     string    `json:"fileId,omitempty"`
	UserID     string    `json:"userId"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}
