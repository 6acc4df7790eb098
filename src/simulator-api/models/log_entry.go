package models

import "time"

type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Tick      uint64    `json:"tick"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

type AdvisoryKind string

const (
	AdvisoryKindRationale  AdvisoryKind = "rationale"
	AdvisoryKindCommentary AdvisoryKind = "commentary"
)

// Advisory is cosmetic text produced by the narrative generator.
type Advisory struct {
	Timestamp time.Time    `json:"timestamp"`
	Tick      uint64       `json:"tick"`
	Kind      AdvisoryKind `json:"kind"`
	Symbol    string       `json:"symbol"`
	Text      string       `json:"text"`
}
