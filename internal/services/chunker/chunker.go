package chunker

import (
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

// separators is the split hierarchy, coarsest first. The empty string is the
// terminal fallback: split at the character level.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 200
)

// Chunker splits assembled source text into overlapping chunks. Splitting is
// deterministic: the same text always produces the same chunks.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	logger       arbor.ILogger
}

// New creates a Chunker from configuration.
func New(config *common.ChunkingConfig, logger arbor.ILogger) *Chunker {
	size := DefaultChunkSize
	overlap := DefaultChunkOverlap
	if config != nil {
		if config.ChunkSize > 0 {
			size = config.ChunkSize
		}
		if config.ChunkOverlap > 0 {
			overlap = config.ChunkOverlap
		}
	}
	if overlap >= size {
		overlap = size / 2
	}

	return &Chunker{
		chunkSize:    size,
		chunkOverlap: overlap,
		logger:       logger,
	}
}

// Chunk splits a source's assembled text into labeled chunks carrying the
// source's identity. Returns EmptyContentError when nothing survives
// splitting.
func (c *Chunker) Chunk(url, domain, title, content string) ([]models.Chunk, error) {
	pieces := c.split(content, separators)

	chunks := make([]models.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		trimmed := strings.TrimSpace(piece)
		if trimmed == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content: trimmed,
			Section: models.DetectSection(trimmed),
			Index:   len(chunks),
			URL:     url,
			Domain:  domain,
			Title:   title,
		})
	}

	if len(chunks) == 0 {
		return nil, &models.EmptyContentError{URL: url}
	}

	c.logger.Debug().
		Str("url", url).
		Int("chunks", len(chunks)).
		Msg("Content chunked")

	return chunks, nil
}

// split recursively divides text using the separator hierarchy: split on the
// coarsest separator present, merge small pieces back up to the chunk size
// with overlap, and recurse into pieces that are still too large.
func (c *Chunker) split(text string, seps []string) []string {
	sep := seps[len(seps)-1]
	var remaining []string
	for i, s := range seps {
		if s == "" {
			sep = ""
			remaining = nil
			break
		}
		if strings.Contains(text, s) {
			sep = s
			remaining = seps[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		pieces = splitByLength(text, c.chunkSize)
	} else {
		pieces = strings.Split(text, sep)
	}

	var result []string
	var pending []string
	for _, piece := range pieces {
		if len(piece) < c.chunkSize {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			result = append(result, c.merge(pending, sep)...)
			pending = nil
		}
		if len(remaining) == 0 {
			result = append(result, piece)
		} else {
			result = append(result, c.split(piece, remaining)...)
		}
	}
	if len(pending) > 0 {
		result = append(result, c.merge(pending, sep)...)
	}

	return result
}

// merge joins adjacent small pieces into chunks near the target size,
// carrying the configured overlap forward between consecutive chunks.
func (c *Chunker) merge(pieces []string, sep string) []string {
	var merged []string
	var window []string
	total := 0

	flush := func() {
		if len(window) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(window, sep))
		if joined != "" {
			merged = append(merged, joined)
		}
	}

	for _, piece := range pieces {
		pieceLen := len(piece)
		if total+pieceLen+len(sep)*len(window) > c.chunkSize && len(window) > 0 {
			flush()
			// Drop leading pieces until the carryover fits inside the overlap
			// and leaves room for the incoming piece within the chunk size.
			for len(window) > 0 &&
				(total > c.chunkOverlap || total+pieceLen+len(sep)*len(window) > c.chunkSize) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += pieceLen
	}
	flush()

	return merged
}

// splitByLength is the terminal fallback: fixed-size rune-boundary slices.
func splitByLength(text string, size int) []string {
	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
