package models

import "time"

// Document is a file shared with a client.
type Document struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Filename    string     `json:"filename,omitempty"`
	FileLink    string     `json:"file_link"`
	FileSize    int64      `json:"file_size,omitempty"`
	FileType    string     `json:"file_type,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
