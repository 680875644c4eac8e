package xtract

import (
	"strings"
	"testing"
)

func TestMsgStreamProp(t *testing.T) {
	tests := []struct {
		name string
		prop string
		typ  string
		ok   bool
	}{
		{"__substg1.0_0037001F", "0037", "001F", true},
		{"__substg1.0_1000001E", "1000", "001E", true},
		{"__substg1.0_3707001f", "3707", "001F", true},
		{"__properties_version1.0", "", "", false},
		{"__recip_version1.0_#00000000", "", "", false},
		{"short", "", "", false},
	}
	for _, tt := range tests {
		prop, typ, ok := msgStreamProp(tt.name)
		if ok != tt.ok || prop != tt.prop || typ != tt.typ {
			t.Errorf("msgStreamProp(%q) = %q,%q,%v want %q,%q,%v",
				tt.name, prop, typ, ok, tt.prop, tt.typ, tt.ok)
		}
	}
}

func TestMsgDecodeProp(t *testing.T) {
	// UTF-16LE property.
	want := "Тема"
	var raw []byte
	for _, r := range want {
		raw = append(raw, byte(r), byte(r>>8))
	}
	if got := msgDecodeProp(raw, "001F"); got != want {
		t.Errorf("001F: got %q, want %q", got, want)
	}

	// 8-bit property runs through charset detection.
	if got := msgDecodeProp([]byte("plain ascii\x00"), "001E"); got != "plain ascii" {
		t.Errorf("001E: got %q", got)
	}

	// Unknown types are ignored.
	if got := msgDecodeProp([]byte{1, 2, 3}, "0102"); got != "" {
		t.Errorf("binary type decoded: %q", got)
	}
}

func TestMsgDateFromTransportHeaders(t *testing.T) {
	hdrs := "Received: from relay\r\nDate: Tue, 12 Mar 2024 09:00:00 +0300\r\nMessage-ID: <x>\r\n"
	m := msgDateRe.FindStringSubmatch(hdrs)
	if m == nil {
		t.Fatal("date not found")
	}
	if m[1] != "Tue, 12 Mar 2024 09:00:00 +0300" {
		t.Errorf("got %q", m[1])
	}
}

func TestInAttachStorage(t *testing.T) {
	if !inAttachStorage([]string{"__attach_version1.0_#00000000"}) {
		t.Error("attach storage not detected")
	}
	if inAttachStorage([]string{}) || inAttachStorage(nil) {
		t.Error("root entries misdetected")
	}
}

func TestMsgRawFallback(t *testing.T) {
	text := "Протокол разногласий по договору"
	var data []byte
	data = append(data, 0, 0, 1, 0) // binary noise
	for _, r := range text {
		data = append(data, byte(r), byte(r>>8))
	}
	data = append(data, 0, 0)

	got := msgRawFallback(data)
	if !strings.Contains(got, text) {
		t.Errorf("got %q, want run %q", got, text)
	}
}

func TestMsgRawFallbackNothingReadable(t *testing.T) {
	if got := msgRawFallback([]byte{0, 1, 2, 3, 4, 5}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestExtractMsgUnreadableContainer(t *testing.T) {
	// CFB magic but a truncated header: the container parser fails and the
	// raw scan takes over without surfacing an error.
	data := append([]byte{}, cfbMagic...)
	data = append(data, make([]byte, 32)...)

	p := newTestPipeline(t, Config{})
	_, notes := p.extractMsg(data)
	if len(notes) == 0 {
		t.Error("expected an unreadable-container note")
	}
}
