package xtract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

// buildDocx wraps a WordprocessingML body in a minimal .docx archive.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`

	for name, content := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   doc,
	} {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		f.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDocxParagraphs(t *testing.T) {
	data := buildDocx(t, `
<w:p><w:r><w:t>Первый абзац договора.</w:t></w:r></w:p>
<w:p><w:r><w:t>Второй </w:t></w:r><w:r><w:t>абзац из двух прогонов.</w:t></w:r></w:p>`)

	p := newTestPipeline(t, Config{})
	text, notes := p.extractDocx(data)
	if len(notes) != 0 {
		t.Fatalf("notes: %v", notes)
	}
	want := "Первый абзац договора.\nВторой абзац из двух прогонов."
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestDocxTableAfterBody(t *testing.T) {
	data := buildDocx(t, `
<w:p><w:r><w:t>Смета расходов</w:t></w:r></w:p>
<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>Позиция</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Сумма</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>Аренда</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>50000</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>`)

	p := newTestPipeline(t, Config{})
	text, _ := p.extractDocx(data)

	// Body paragraphs come first, tables after, rows as tab-joined lines.
	want := "Смета расходов\nПозиция\tСумма\nАренда\t50000"
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestDocxMarkupWhitespaceIgnored(t *testing.T) {
	// Indentation between elements must not leak into the text.
	data := buildDocx(t, "\n  <w:p>\n    <w:r>\n      <w:t>clean</w:t>\n    </w:r>\n  </w:p>\n")
	p := newTestPipeline(t, Config{})
	text, _ := p.extractDocx(data)
	if text != "clean" {
		t.Errorf("got %q, want %q", text, "clean")
	}
}

func TestDocxNotAZip(t *testing.T) {
	p := newTestPipeline(t, Config{})
	text, notes := p.extractDocx([]byte("plainly not a zip archive"))
	if text != "" || len(notes) == 0 {
		t.Errorf("text=%q notes=%v", text, notes)
	}
}

func TestDocxMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("other.xml")
	f.Write([]byte("<x/>"))
	zw.Close()

	p := newTestPipeline(t, Config{})
	text, notes := p.extractDocx(buf.Bytes())
	if text != "" || len(notes) == 0 {
		t.Errorf("text=%q notes=%v", text, notes)
	}
}

func TestDocxThroughDispatcher(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>через диспетчер</w:t></w:r></w:p>`)
	p := newTestPipeline(t, Config{})
	res := p.Extract(context.Background(), FromBytes(data, "contract.docx", ""))
	if res.Kind != KindDocx {
		t.Errorf("kind = %q", res.Kind)
	}
	if !strings.Contains(res.Text, "через диспетчер") {
		t.Errorf("text = %q", res.Text)
	}
}
