// Package export renders a terminal VGC result into the download formats
// the console offers. Everything is produced client-side from the final
// job reply; no server round-trip.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"github.com/xuri/excelize/v2"
)

const (
	headerChild     = "Child"
	headerPersonnel = "Personnel"

	staffSeparator = " & "
	sheetName      = "VGC"
)

// JSON renders the result as a pretty-printed array of one-key objects,
// child name to its fixed-faces staff names.
func JSON(result *api.VGCResult) ([]byte, error) {
	entries := make([]map[string][]string, 0, len(result.VGCList))
	for _, entry := range result.VGCList {
		entries = append(entries, map[string][]string{
			entry.Child: staffNames(entry),
		})
	}
	return json.MarshalIndent(entries, "", "  ")
}

// Workbook renders the result as a two-column xlsx sheet.
func Workbook(result *api.VGCResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]string{headerChild, headerPersonnel}); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i, entry := range result.VGCList {
		cell := fmt.Sprintf("A%d", i+2)
		row := []string{entry.Child, strings.Join(staffNames(entry), staffSeparator)}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Text renders the result as tab-separated plain text. Tabs and newlines
// inside cells are normalized to spaces so the column structure survives.
func Text(result *api.VGCResult) []byte {
	var b strings.Builder
	b.WriteString(headerChild + "\t" + headerPersonnel + "\n")
	for _, entry := range result.VGCList {
		child := normalizeCell(entry.Child)
		staff := normalizeCell(strings.Join(staffNames(entry), staffSeparator))
		b.WriteString(child + "\t" + staff + "\n")
	}
	return []byte(b.String())
}

// Doc renders the result as an HTML table, served with a .doc name so
// word processors open it directly. Cell content is entity-escaped.
func Doc(result *api.VGCResult) []byte {
	var b bytes.Buffer
	b.WriteString("<html><head><meta charset=\"utf-8\"></head><body>\n")
	b.WriteString("<table border=\"1\">\n")
	fmt.Fprintf(&b, "<tr><th>%s</th><th>%s</th></tr>\n",
		html.EscapeString(headerChild), html.EscapeString(headerPersonnel))
	for _, entry := range result.VGCList {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(entry.Child),
			html.EscapeString(strings.Join(staffNames(entry), staffSeparator)))
	}
	b.WriteString("</table>\n</body></html>\n")
	return b.Bytes()
}

func staffNames(entry api.VGCEntry) []string {
	names := make([]string, 0, len(entry.FixedFaces))
	for _, face := range entry.FixedFaces {
		names = append(names, face.Staff)
	}
	return names
}

var cellNormalizer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func normalizeCell(s string) string {
	return cellNormalizer.Replace(s)
}
