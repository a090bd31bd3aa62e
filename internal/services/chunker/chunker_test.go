package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

func newTestChunker(size, overlap int) *Chunker {
	return New(&common.ChunkingConfig{ChunkSize: size, ChunkOverlap: overlap}, common.GetLogger())
}

func TestChunkShortContentSingleChunk(t *testing.T) {
	c := newTestChunker(500, 200)
	chunks, err := c.Chunk("https://example.com", "example.com", "Example", "TITLE: Example\n\nA short page.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Section != models.SectionTitle {
		t.Errorf("expected title section, got %s", chunks[0].Section)
	}
	if chunks[0].Domain != "example.com" || chunks[0].Title != "Example" {
		t.Errorf("chunk should carry source identity: %+v", chunks[0])
	}
}

func TestChunkRespectsSizeBound(t *testing.T) {
	paragraphs := make([]string, 40)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 30)
	}
	content := "MAIN CONTENT:\n\n" + strings.Join(paragraphs, "\n\n")

	c := newTestChunker(500, 200)
	chunks, err := c.Chunk("https://example.com", "example.com", "Example", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("long content should produce multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Content) > 500 {
			t.Errorf("chunk %d exceeds size bound: %d chars", i, len(chunk.Content))
		}
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
	}
}

func TestChunkCarryoverLeavesRoomForNextPiece(t *testing.T) {
	// A small piece followed by a near-size piece: the overlap carried from
	// the first chunk must be dropped when keeping it would push the next
	// chunk past the size bound.
	content := strings.Repeat("a", 200) + "\n\n" + strings.Repeat("b", 450) + "\n\n" + strings.Repeat("c", 100)

	c := newTestChunker(500, 200)
	chunks, err := c.Chunk("https://example.com", "example.com", "Example", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Content) > 500 {
			t.Errorf("chunk %d exceeds size bound: %d chars", i, len(chunk.Content))
		}
	}
}

func TestChunkOverlapSharesText(t *testing.T) {
	sentences := make([]string, 60)
	for i := range sentences {
		sentences[i] = "Sentence number " + strings.Repeat("x", i%7) + " describes the product"
	}
	content := strings.Join(sentences, ". ")

	c := newTestChunker(400, 150)
	chunks, err := c.Chunk("https://example.com", "example.com", "Example", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Consecutive chunks should share trailing/leading text.
	first := chunks[0].Content
	tail := first[len(first)-40:]
	if !strings.Contains(chunks[1].Content, tail[:20]) {
		t.Errorf("expected overlap between chunks 0 and 1\nchunk 0 tail: %q\nchunk 1: %q", tail, chunks[1].Content[:80])
	}
}

func TestChunkDeterministic(t *testing.T) {
	content := "TITLE: Example\n\nMAIN CONTENT:\n" + strings.Repeat("Alpha beta gamma delta. ", 80)
	c := newTestChunker(500, 200)

	a, err := c.Chunk("https://example.com", "example.com", "Example", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.Chunk("https://example.com", "example.com", "Example", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Content != b[i].Content {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunkSectionLabels(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"title marker", "TITLE: About Us", models.SectionTitle},
		{"headings marker", "HEADINGS:\nH1: Welcome", models.SectionHeadings},
		{"tables marker", "TABLES:\nTable 1: Pricing", models.SectionTables},
		{"no marker", "Just plain text without any marker", models.SectionUnknown},
	}

	c := newTestChunker(500, 200)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := c.Chunk("https://example.com", "example.com", "Example", tt.content)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if chunks[0].Section != tt.want {
				t.Errorf("got section %s, want %s", chunks[0].Section, tt.want)
			}
		})
	}
}

func TestChunkEmptyContent(t *testing.T) {
	c := newTestChunker(500, 200)
	_, err := c.Chunk("https://example.com", "example.com", "Example", "   \n\n  ")

	var emptyErr *models.EmptyContentError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptyContentError, got %v", err)
	}
}

func TestChunkUnbrokenText(t *testing.T) {
	// No separators at all: falls through to fixed-length splitting.
	content := strings.Repeat("a", 1200)
	c := newTestChunker(500, 200)
	chunks, err := c.Chunk("https://example.com", "example.com", "Example", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 fixed-length chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if len(chunk.Content) > 500 {
			t.Errorf("fixed-length chunk exceeds size: %d", len(chunk.Content))
		}
	}
}
