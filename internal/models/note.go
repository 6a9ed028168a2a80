// Package models defines the domain types shared across Raido layers.
package models

import "time"

// NoteMeta is the lightweight representation returned by list operations.
type NoteMeta struct {
	Path     string    `json:"path"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size"`
}

// FileInfo is the result of a stat operation on a vault path.
type FileInfo struct {
	Modified    time.Time `json:"modified"`
	Size        int64     `json:"size"`
	IsDirectory bool      `json:"isDirectory"`
}

// Event is a vault change notification kind.
type Event string

// Change notification kinds delivered to the sink.
const (
	EventAdd    Event = "add"
	EventChange Event = "change"
	EventUnlink Event = "unlink"
)
