package extractor

import "strings"

// assemble merges extractor outputs into one ordered, labeled text block.
// Empty sections are omitted entirely.
func assemble(title, description string, headings []string, mainText string, tables, lists []string) string {
	var sb strings.Builder

	if title != "" {
		sb.WriteString("TITLE: " + title + "\n\n")
	}
	if description != "" {
		sb.WriteString("DESCRIPTION: " + description + "\n\n")
	}
	if len(headings) > 0 {
		sb.WriteString("HEADINGS:\n" + strings.Join(headings, "\n") + "\n\n")
	}
	if mainText != "" {
		sb.WriteString("MAIN CONTENT:\n" + mainText + "\n\n")
	}
	if len(tables) > 0 {
		sb.WriteString("TABLES:\n" + strings.Join(tables, "\n\n") + "\n\n")
	}
	if len(lists) > 0 {
		sb.WriteString("LISTS:\n" + strings.Join(lists, "\n\n") + "\n\n")
	}

	return sb.String()
}

// assembleMinimal is the degraded form used when only a title and body text
// survived extraction.
func assembleMinimal(title, mainText string) string {
	return "TITLE: " + title + "\n\nMAIN CONTENT:\n" + mainText
}
