package xtract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractExcel renders a workbook as per-sheet TSV blocks. Each sheet opens
// with a named header line so multi-sheet books stay navigable in plain
// text; sheets that fail to read are skipped with a note.
func (p *Pipeline) extractExcel(data []byte) (string, []string) {
	var notes []string

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Pre-2007 workbooks are OLE compound files, not zip archives.
		if bytes.HasPrefix(data, cfbMagic) {
			p.logger.Warn("legacy xls workbook", "error", err)
			return "", append(notes, "legacy .xls (BIFF) format not supported")
		}
		p.logger.Warn("workbook open failed", "error", err)
		return "", append(notes, fmt.Sprintf("workbook open failed: %v", err))
	}
	defer wb.Close()

	var blocks []string
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			p.logger.Warn("sheet read failed", "sheet", sheet, "error", err)
			notes = append(notes, fmt.Sprintf("sheet %q skipped: %v", sheet, err))
			continue
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "=== Лист: %s ===", sheet)
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
			if line == "" {
				continue
			}
			sb.WriteByte('\n')
			sb.WriteString(line)
		}
		blocks = append(blocks, sb.String())
	}

	return strings.Join(blocks, "\n\n"), notes
}
