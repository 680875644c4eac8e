package xtract

import (
	"context"
	"strings"
	"testing"
)

func TestEMLHeadersAndBody(t *testing.T) {
	msg := "From: ivanov@example.ru\r\n" +
		"To: petrov@example.ru\r\n" +
		"Cc: sidorov@example.ru\r\n" +
		"Subject: =?UTF-8?B?0J7RgtGH0ZHRgiDQt9CwINC80LDRgNGC?=\r\n" +
		"Date: Mon, 11 Mar 2024 10:15:00 +0300\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Коллеги, отчёт во вложении.\r\n"

	p := newTestPipeline(t, Config{})
	text, notes := p.extractEML([]byte(msg))
	if len(notes) != 0 {
		t.Fatalf("notes: %v", notes)
	}
	for _, want := range []string{
		"Тема: Отчёт за март",
		"От  : ivanov@example.ru",
		"Кому: petrov@example.ru",
		"Копия: sidorov@example.ru",
		"Дата: Mon, 11 Mar 2024 10:15:00 +0300",
		"Тело письма:\nКоллеги, отчёт во вложении.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestEMLHTMLOnlyBody(t *testing.T) {
	msg := "From: a@example.com\r\n" +
		"Subject: html only\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>Добрый день,</p><p>направляю &laquo;смету&raquo;.</p></body></html>\r\n"

	p := newTestPipeline(t, Config{})
	text, _ := p.extractEML([]byte(msg))
	if strings.Contains(text, "<p>") {
		t.Errorf("markup leaked: %q", text)
	}
	if !strings.Contains(text, "Добрый день,") {
		t.Errorf("html body lost: %q", text)
	}
	if !strings.Contains(text, "«смету»") {
		t.Errorf("entities not unescaped: %q", text)
	}
}

func TestEMLAttachmentNames(t *testing.T) {
	msg := "From: a@example.com\r\n" +
		"Subject: docs\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=BOUND\r\n" +
		"\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"see attached\r\n" +
		"--BOUND\r\n" +
		"Content-Type: application/pdf\r\n" +
		"Content-Disposition: attachment; filename=\"contract.pdf\"\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"JVBERi0xLjQ=\r\n" +
		"--BOUND--\r\n"

	p := newTestPipeline(t, Config{})
	text, _ := p.extractEML([]byte(msg))
	if !strings.Contains(text, "Вложения:\n- contract.pdf") {
		t.Errorf("attachment list missing:\n%s", text)
	}
	if !strings.Contains(text, "see attached") {
		t.Errorf("body lost: %q", text)
	}
}

func TestEMLMalformed(t *testing.T) {
	p := newTestPipeline(t, Config{})
	text, _ := p.extractEML([]byte("no header structure at all"))
	// enmime treats this as a headerless body; whatever comes back, the
	// call must not fail the pipeline.
	_ = text
}

func TestEmailRoutingMsgByMagic(t *testing.T) {
	// CFB magic routes to the .msg path even with an .eml name.
	data := append([]byte{}, cfbMagic...)
	data = append(data, make([]byte, 64)...)

	p := newTestPipeline(t, Config{})
	res := p.Extract(context.Background(), FromBytes(data, "message.eml", ""))
	if res.Kind != KindEmail {
		t.Errorf("kind = %q", res.Kind)
	}
	if len(res.Notes) == 0 {
		t.Error("expected a note from the msg path")
	}
}

func TestHTMLBodyToText(t *testing.T) {
	got := htmlBodyToText("<div>one   two</div><div>&nbsp;</div><div>three</div>")
	if strings.Contains(got, "  ") {
		t.Errorf("spaces not collapsed: %q", got)
	}
	if !strings.Contains(got, "one two") || !strings.Contains(got, "three") {
		t.Errorf("got %q", got)
	}
}
