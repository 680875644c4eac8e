package xtract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDocx reads the main document part of a .docx archive. Body
// paragraphs come first, then each table as tab-separated rows, one row per
// line. Run properties, footnotes and headers are ignored.
func (p *Pipeline) extractDocx(data []byte) (string, []string) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		p.logger.Warn("docx open failed", "error", err)
		return "", []string{fmt.Sprintf("docx open failed: %v", err)}
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				break
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				docXML = nil
			}
			break
		}
	}
	if docXML == nil {
		p.logger.Warn("docx missing document part")
		return "", []string{"docx missing word/document.xml"}
	}

	text, err := walkDocumentXML(docXML)
	if err != nil {
		p.logger.Warn("docx parse failed", "error", err)
		return "", []string{fmt.Sprintf("docx parse failed: %v", err)}
	}
	return text, nil
}

// walkDocumentXML token-walks WordprocessingML. Paragraphs outside tables
// stream into the body; table cells collect into rows joined with tabs, so
// tabular layouts survive as something a reader can still line up.
func walkDocumentXML(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var body []string
	var tables []string

	var para strings.Builder
	var cell strings.Builder
	var row []string
	var table []string
	tblDepth := 0
	inText := false

	flushPara := func() {
		if s := strings.TrimSpace(para.String()); s != "" {
			if tblDepth > 0 {
				cell.WriteString(s)
				cell.WriteByte(' ')
			} else {
				body = append(body, s)
			}
		}
		para.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.CharData:
			// Only w:t carries document text; everything else is markup
			// whitespace.
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flushPara()
			case "tc":
				flushPara()
				row = append(row, strings.TrimSpace(cell.String()))
				cell.Reset()
			case "tr":
				if len(row) > 0 {
					table = append(table, strings.Join(row, "\t"))
					row = nil
				}
			case "tbl":
				tblDepth--
				if tblDepth == 0 && len(table) > 0 {
					tables = append(tables, strings.Join(table, "\n"))
					table = nil
				}
			}
		}
	}

	parts := append(body, tables...)
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
