package models

import (
	"time"
)

// SourceStatus constants
const (
	SourceStatusSuccess = "success"
	SourceStatusFailed  = "failed"
)

// Source represents one ingested and indexed web page. Identity is the
// canonical URL; the on-disk index path is a deterministic hash of it.
type Source struct {
	URL         string    `json:"url" badgerhold:"key"`
	Domain      string    `json:"domain"`
	Title       string    `json:"title"`
	Authors     []string  `json:"authors,omitempty"`
	PublishDate string    `json:"publish_date,omitempty"`
	Description string    `json:"description,omitempty"`
	Keywords    string    `json:"keywords,omitempty"`
	Images      []Image   `json:"images,omitempty"`
	ArticleHTML string    `json:"article_html,omitempty"` // Cleaned article markup kept for export
	ChunkCount  int       `json:"chunk_count"`
	IndexPath   string    `json:"index_path"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Image is a page image that passed filtering, with the context harvested
// around it. LocalPath is set only after the download passed content-type,
// size, and dimension validation.
type Image struct {
	URL             string `json:"url"`
	AltText         string `json:"alt_text,omitempty"`
	Caption         string `json:"caption,omitempty"`
	Heading         string `json:"heading,omitempty"`
	SurroundingText string `json:"surrounding_text,omitempty"`
	LocalPath       string `json:"local_path,omitempty"`
	Description     string `json:"description,omitempty"`
}

// Describe returns the first non-empty of caption, alt text, and nearest
// heading, falling back to "Image from {domain}".
func (i *Image) Describe(domain string) string {
	if i.Caption != "" {
		return i.Caption
	}
	if i.AltText != "" {
		return i.AltText
	}
	if i.Heading != "" {
		return i.Heading
	}
	return "Image from " + domain
}
