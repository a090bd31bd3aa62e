package models

import "strings"

// Section labels classify where in the assembled content a chunk originated.
const (
	SectionTitle       = "title"
	SectionDescription = "description"
	SectionHeadings    = "headings"
	SectionMainContent = "main_content"
	SectionTables      = "tables"
	SectionLists       = "lists"
	SectionUnknown     = "unknown"
)

// sectionMarkers pairs each content marker with its label, in detection
// priority order. The first marker contained in a chunk wins.
var sectionMarkers = []struct {
	Marker string
	Label  string
}{
	{"TITLE:", SectionTitle},
	{"DESCRIPTION:", SectionDescription},
	{"HEADINGS:", SectionHeadings},
	{"MAIN CONTENT:", SectionMainContent},
	{"TABLES:", SectionTables},
	{"LISTS:", SectionLists},
}

// SectionOrder is the fixed priority in which sections are emitted when
// assembling retrieval context.
var SectionOrder = []string{
	SectionTitle,
	SectionDescription,
	SectionHeadings,
	SectionMainContent,
	SectionTables,
	SectionLists,
	SectionUnknown,
}

// DetectSection returns the section label for a chunk of assembled text.
func DetectSection(text string) string {
	for _, m := range sectionMarkers {
		if strings.Contains(text, m.Marker) {
			return m.Label
		}
	}
	return SectionUnknown
}

// Chunk is a bounded-length slice of one source's assembled text, embedded
// and indexed independently. The source fields are denormalized so retrieval
// results can be displayed without a catalog lookup.
type Chunk struct {
	Content string `json:"content"`
	Section string `json:"section"`
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Domain  string `json:"domain"`
	Title   string `json:"title"`
}
