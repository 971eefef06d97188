package ecstest

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
)

// maxPreviewLen bounds the rendered size of a single Given/Found/Match
// section in an assertion diagnostic.
const maxPreviewLen = 300

var (
	headlineColor = color.New(color.FgRed)
	labelColor    = color.New(color.FgHiBlack)
)

// rawString is rendered verbatim instead of being JSON-encoded.
type rawString string

func render(v any) string {
	switch v := v.(type) {
	case nil:
		return "(none)"
	case rawString:
		return truncate(string(v))
	}
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return truncate(fmt.Sprintf("%+v", v))
	}
	return truncate(string(bz))
}

func truncate(s string) string {
	if len(s) <= maxPreviewLen {
		return s
	}
	return s[:maxPreviewLen] + labelColor.Sprint(" ...")
}

func writeSection(sb *strings.Builder, label string, v any) {
	body := render(v)
	sb.WriteString(labelColor.Sprint(label))
	if strings.Contains(body, "\n") {
		sb.WriteByte('\n')
	} else {
		sb.WriteByte(' ')
	}
	sb.WriteString(body)
	sb.WriteByte('\n')
}

func formatMismatch(headline string, given, found any) string {
	sb := &strings.Builder{}
	sb.WriteString(headlineColor.Sprint(headline))
	sb.WriteByte('\n')
	writeSection(sb, "Given:", given)
	sb.WriteByte('\n')
	writeSection(sb, "Found:", found)
	return sb.String()
}

func formatUnexpectedMatch(headline string, match any) string {
	sb := &strings.Builder{}
	sb.WriteString(headlineColor.Sprint(headline))
	sb.WriteByte('\n')
	writeSection(sb, "Match:", match)
	return sb.String()
}
