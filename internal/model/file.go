// Package model defines the records kept in the document store and the
// payloads passed through the job queues
package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// RootID is the parent reference of every record that lives at the top level
const RootID = "0"

type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

var FileTypes = []FileType{TypeFolder, TypeFile, TypeImage}

func (t FileType) Valid() bool {
	return slices.Contains(FileTypes, t)
}

// HasContent reports whether records of this type carry a blob
func (t FileType) HasContent() bool {
	return t == TypeFile || t == TypeImage
}

type File struct {
	ID       string   `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	UserID   string   `gorm:"index:idx_owner_parent;size:24;not null" bson:"userId" json:"userId"`
	Name     string   `gorm:"not null" bson:"name" json:"name"`
	Type     FileType `gorm:"not null" bson:"type" json:"type"`
	IsPublic bool     `bson:"isPublic" json:"isPublic"`
	ParentID string   `gorm:"index:idx_owner_parent;size:24;not null" bson:"parentId" json:"parentId"`

	// Content handle returned by the content store. Never shown to clients,
	// thumbnails live next to it as <LocalPath>_<width>
	LocalPath string    `bson:"localPath,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"-"`
}

// ParentRef is a parent reference as sent by clients. Both the number 0
// and the string "0" mean root
type ParentRef string

func (p *ParentRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = ParentRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parentId must be a string or 0, %w", err)
	}

	if n.String() != RootID {
		return fmt.Errorf("invalid numeric parentId %s", n.String())
	}

	*p = RootID
	return nil
}

// ID returns the canonical parent id, mapping the empty value to root
func (p ParentRef) ID() string {
	if p == "" {
		return RootID
	}

	return string(p)
}
