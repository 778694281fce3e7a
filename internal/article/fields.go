package article

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionContentField returns the field name used internally to address a
// section's content, e.g. "section_03_content".
func SectionContentField(ordinal int) string {
	return fmt.Sprintf("section_%02d_content", ordinal)
}

// SectionTitleField returns the field name used internally to address a
// section's title, e.g. "section_03_title".
func SectionTitleField(ordinal int) string {
	return fmt.Sprintf("section_%02d_title", ordinal)
}

func parseSectionOrdinal(field string) (int, bool) {
	return parseNumberedField(field, "section_", "_content")
}

func parseSectionTitleOrdinal(field string) (int, bool) {
	return parseNumberedField(field, "section_", "_title")
}

func parseNumberedField(field, prefix, suffix string) (int, bool) {
	if !strings.HasPrefix(field, prefix) || !strings.HasSuffix(field, suffix) {
		return 0, false
	}
	mid := strings.TrimSuffix(strings.TrimPrefix(field, prefix), suffix)
	n, err := strconv.Atoi(mid)
	if err != nil {
		return 0, false
	}
	return n, true
}
