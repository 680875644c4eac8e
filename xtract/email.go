package xtract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/microcosm-cc/bluemonday"
)

// OLE compound file magic, the container every Outlook .msg ships in.
var cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// extractEmail routes a message to the right parser: Outlook .msg files are
// OLE compound documents, everything else is treated as RFC 822.
func (p *Pipeline) extractEmail(data []byte, filename string) (string, []string) {
	if bytes.HasPrefix(data, cfbMagic) || strings.HasSuffix(strings.ToLower(filename), ".msg") {
		return p.extractMsg(data)
	}
	return p.extractEML(data)
}

// extractEML renders an RFC 822 message as labeled headers plus the body.
// The plain part wins; HTML-only messages are sanitized down to text.
func (p *Pipeline) extractEML(data []byte) (string, []string) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		p.logger.Warn("eml parse failed", "error", err)
		return "", []string{fmt.Sprintf("eml parse failed: %v", err)}
	}

	var notes []string
	for _, e := range env.Errors {
		if e.Severe {
			notes = append(notes, fmt.Sprintf("eml defect: %s", e.Error()))
		}
	}

	var sb strings.Builder
	writeHeader(&sb, "Тема:", env.GetHeader("Subject"))
	writeHeader(&sb, "От  :", env.GetHeader("From"))
	writeHeader(&sb, "Кому:", env.GetHeader("To"))
	writeHeader(&sb, "Копия:", env.GetHeader("Cc"))
	writeHeader(&sb, "Дата:", env.GetHeader("Date"))

	body := strings.TrimSpace(env.Text)
	if body == "" && env.HTML != "" {
		body = htmlBodyToText(env.HTML)
	}
	if body != "" {
		sb.WriteString("\nТело письма:\n")
		sb.WriteString(body)
		sb.WriteByte('\n')
	}

	var names []string
	for _, att := range env.Attachments {
		if att.FileName != "" {
			names = append(names, att.FileName)
		}
	}
	if len(names) > 0 {
		sb.WriteString("\nВложения:\n")
		for _, name := range names {
			sb.WriteString("- ")
			sb.WriteString(name)
			sb.WriteByte('\n')
		}
	}

	return strings.TrimSpace(sb.String()), notes
}

func writeHeader(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString(label)
	sb.WriteByte(' ')
	sb.WriteString(value)
	sb.WriteByte('\n')
}

var multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)

// htmlBodyToText strips an HTML body down to readable text: all markup
// removed, entities unescaped, runs of spaces collapsed.
func htmlBodyToText(htmlBody string) string {
	stripped := bluemonday.StrictPolicy().Sanitize(htmlBody)
	stripped = html.UnescapeString(stripped)
	stripped = multiSpaceRe.ReplaceAllString(stripped, " ")

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
