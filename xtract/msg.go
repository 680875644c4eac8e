package xtract

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/richardlehane/mscfb"
)

// MAPI property streams carry the id and type in the stream name:
// __substg1.0_<prop><type>, with type 001F for UTF-16 and 001E for
// codepage strings.
const (
	msgPropSubject   = "0037"
	msgPropSender    = "0C1A"
	msgPropTo        = "0E04"
	msgPropCc        = "0E03"
	msgPropBody      = "1000"
	msgPropTransport = "007D"
	msgPropAttachLon = "3707"
	msgPropAttachSho = "3704"
)

var msgDateRe = regexp.MustCompile(`(?mi)^Date:\s*(.+?)\s*$`)

// extractMsg reads an Outlook .msg compound file: the usual MAPI property
// streams become labeled headers and body, attachment names are listed. A
// message whose property streams are unreadable falls back to scanning the
// container for UTF-16 text runs.
func (p *Pipeline) extractMsg(data []byte) (string, []string) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		p.logger.Warn("msg open failed", "error", err)
		return msgRawFallback(data), []string{"msg container unreadable, raw scan used"}
	}

	props := map[string]string{}
	var longNames, shortNames []string

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		prop, typ, ok := msgStreamProp(entry.Name)
		if !ok {
			continue
		}
		raw, rerr := io.ReadAll(entry)
		if rerr != nil || len(raw) == 0 {
			continue
		}
		val := msgDecodeProp(raw, typ)
		if val == "" {
			continue
		}

		switch prop {
		case msgPropAttachLon:
			longNames = append(longNames, val)
			continue
		case msgPropAttachSho:
			shortNames = append(shortNames, val)
			continue
		}
		if inAttachStorage(entry.Path) {
			continue
		}
		if _, seen := props[prop]; !seen {
			props[prop] = val
		}
	}

	var sb strings.Builder
	writeHeader(&sb, "Тема:", props[msgPropSubject])
	writeHeader(&sb, "От  :", props[msgPropSender])
	writeHeader(&sb, "Кому:", props[msgPropTo])
	writeHeader(&sb, "Копия:", props[msgPropCc])
	if hdrs := props[msgPropTransport]; hdrs != "" {
		if m := msgDateRe.FindStringSubmatch(hdrs); m != nil {
			writeHeader(&sb, "Дата:", m[1])
		}
	}
	if body := strings.TrimSpace(props[msgPropBody]); body != "" {
		sb.WriteString("\nТело письма:\n")
		sb.WriteString(body)
		sb.WriteByte('\n')
	}
	// Long display names win over 8.3 short names when both exist.
	attachments := longNames
	if len(attachments) == 0 {
		attachments = shortNames
	}
	if len(attachments) > 0 {
		sb.WriteString("\nВложения:\n")
		for _, name := range attachments {
			sb.WriteString("- ")
			sb.WriteString(name)
			sb.WriteByte('\n')
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		p.logger.Info("msg property streams empty, raw scan")
		if out = msgRawFallback(data); out == "" {
			return "", []string{"msg yielded no readable text"}
		}
		return out, []string{"msg property streams empty, raw scan used"}
	}
	return out, nil
}

// msgStreamProp splits "__substg1.0_0037001F" into property id and type.
func msgStreamProp(name string) (prop, typ string, ok bool) {
	const prefix = "__substg1.0_"
	if !strings.HasPrefix(name, prefix) || len(name) < len(prefix)+8 {
		return "", "", false
	}
	tag := name[len(prefix):]
	return strings.ToUpper(tag[:4]), strings.ToUpper(tag[4:8]), true
}

func msgDecodeProp(raw []byte, typ string) string {
	switch typ {
	case "001F":
		return strings.TrimSpace(decodeUTF16LE(raw))
	case "001E":
		return strings.TrimSpace(strings.TrimRight(decodeText(raw), "\x00"))
	}
	return ""
}

func inAttachStorage(path []string) bool {
	for _, seg := range path {
		if strings.HasPrefix(seg, "__attach") {
			return true
		}
	}
	return false
}

// msgRawFallback scans the raw container for printable UTF-16LE runs. Crude,
// but it salvages subject lines and body fragments from messages no parser
// accepts.
func msgRawFallback(data []byte) string {
	var runs []string
	var cur []rune
	flush := func() {
		if len(cur) >= 8 {
			runs = append(runs, strings.TrimSpace(string(cur)))
		}
		cur = cur[:0]
	}
	for i := 0; i+1 < len(data); i += 2 {
		r := rune(uint16(data[i]) | uint16(data[i+1])<<8)
		switch {
		case r == '\n' || r == '\t' || (r >= 0x20 && r < 0xD800 && r != 0x7F):
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	if len(runs) == 0 {
		return ""
	}
	return strings.Join(runs, "\n")
}
