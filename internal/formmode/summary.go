package formmode

import (
	"fmt"
	"strings"
)

// Summary holds the fields read from a rendered record summary.
type Summary struct {
	Primary string
	Text    string
}

// ParseSummary extracts the primary field and announcement text from a record
// summary. The heading must read "Name:" and the body must consist of
// "Label: value" lines. Text is taken from the line labelled v.TextLabel and
// any lines that follow it, or from the first line when TextLabel is empty.
func ParseSummary(summary Element, v Variant) (Summary, error) {
	if summary == nil {
		return Summary{}, fmt.Errorf("%w: summary element is nil", ErrMalformedRecordSummary)
	}
	heading, ok := summary.Find(summaryHeadingSelector)
	if !ok {
		return Summary{}, fmt.Errorf("%w: no %s heading", ErrMalformedRecordSummary, summaryHeadingSelector)
	}
	primary, err := parseHeading(heading.Text())
	if err != nil {
		return Summary{}, err
	}

	body, ok := summary.Find(summaryBodySelector)
	if !ok {
		return Summary{}, fmt.Errorf("%w: no %s body", ErrMalformedRecordSummary, summaryBodySelector)
	}
	text, err := parseBody(body.Text(), v.TextLabel)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Primary: primary, Text: text}, nil
}

func parseHeading(raw string) (string, error) {
	heading := strings.TrimSpace(raw)
	if !strings.HasSuffix(heading, ":") {
		return "", fmt.Errorf("%w: heading %q lacks a trailing colon", ErrMalformedRecordSummary, heading)
	}
	primary := strings.TrimSpace(strings.TrimSuffix(heading, ":"))
	if primary == "" {
		return "", fmt.Errorf("%w: heading is empty", ErrMalformedRecordSummary)
	}
	return primary, nil
}

func parseBody(raw, textLabel string) (string, error) {
	lines := bodyLines(raw)
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: body has no lines", ErrMalformedRecordSummary)
	}
	_, first, ok := splitLine(lines[0])
	if !ok {
		return "", fmt.Errorf("%w: first body line %q is not \"label: value\"", ErrMalformedRecordSummary, lines[0])
	}
	if textLabel == "" {
		return first, nil
	}

	for i, line := range lines {
		label, value, ok := splitLine(line)
		if !ok || !strings.EqualFold(label, textLabel) {
			continue
		}
		rest := append([]string{value}, lines[i+1:]...)
		return strings.TrimSpace(strings.Join(rest, "\n")), nil
	}
	return "", fmt.Errorf("%w: no %q line", ErrMalformedRecordSummary, textLabel)
}

func bodyLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// splitLine splits "label: value" on the first separator so values may
// themselves contain ": ".
func splitLine(line string) (string, string, bool) {
	if value, ok := strings.CutSuffix(line, ":"); ok && !strings.Contains(value, ": ") {
		return strings.TrimSpace(value), "", true
	}
	label, value, ok := strings.Cut(line, ": ")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(label), strings.TrimSpace(value), true
}
