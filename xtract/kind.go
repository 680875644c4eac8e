package xtract

import (
	"mime"
	"path/filepath"
	"strings"
)

// Kind identifies the content category driving extractor selection.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindImage       Kind = "image"
	KindDocx        Kind = "docx"
	KindExcel       Kind = "xlsx"
	KindHTML        Kind = "html"
	KindRTF         Kind = "rtf"
	KindEmail       Kind = "email"
	KindText        Kind = "text"
	KindUnsupported Kind = "unsupported"
)

var mimeKinds = map[string]Kind{
	"application/pdf": KindPDF,

	"image/png":  KindImage,
	"image/jpeg": KindImage,
	"image/bmp":  KindImage,
	"image/gif":  KindImage,
	"image/tiff": KindImage,

	"text/html":             KindHTML,
	"application/xhtml+xml": KindHTML,
	"text/xml":              KindHTML,
	"application/xml":       KindHTML,

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindDocx,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       KindExcel,

	"application/vnd.ms-excel": KindExcel,

	"application/rtf": KindRTF,
	"text/rtf":        KindRTF,

	"text/plain": KindText,

	"message/rfc822":             KindEmail,
	"application/vnd.ms-outlook": KindEmail,
	"application/x-msg":          KindEmail,
}

var extKinds = map[string]Kind{
	"pdf": KindPDF,

	"png":  KindImage,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"bmp":  KindImage,
	"gif":  KindImage,
	"tif":  KindImage,
	"tiff": KindImage,

	"html":  KindHTML,
	"htm":   KindHTML,
	"xhtml": KindHTML,
	"xml":   KindHTML,

	"docx": KindDocx,

	"xlsx": KindExcel,
	"xls":  KindExcel,
	"xlsm": KindExcel,

	"rtf": KindRTF,

	"txt":  KindText,
	"text": KindText,

	"eml": KindEmail,
	"msg": KindEmail,
}

// Classify maps a (filename, mime) pair to a content kind. Priority: the
// explicit MIME hint, then the filename extension, then a MIME guessed from
// the filename. Anything unrecognized resolves to KindUnsupported; Classify
// never fails, so classification can never block the pipeline.
func Classify(filename, mimeType string) Kind {
	if m := normalizeMIME(mimeType); m != "" {
		if k, ok := mimeKinds[m]; ok {
			return k
		}
	}
	if e := extFromFilename(filename); e != "" {
		if k, ok := extKinds[e]; ok {
			return k
		}
	}
	if m := normalizeMIME(guessMIME(filename)); m != "" {
		if k, ok := mimeKinds[m]; ok {
			return k
		}
	}
	return KindUnsupported
}

// Kinds lists every supported content kind.
func Kinds() []Kind {
	return []Kind{
		KindPDF, KindImage, KindDocx, KindExcel,
		KindHTML, KindRTF, KindEmail, KindText,
	}
}

func normalizeMIME(m string) string {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "" {
		return ""
	}
	// "text/html; charset=utf-8" → "text/html"
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	return m
}

func extFromFilename(filename string) string {
	if filename == "" {
		return ""
	}
	dot := strings.LastIndexByte(filename, '.')
	if dot < 0 || dot == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[dot+1:])
}

func guessMIME(filename string) string {
	if filename == "" {
		return ""
	}
	return mime.TypeByExtension(filepath.Ext(filename))
}
