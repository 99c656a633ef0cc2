package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"programcheck/internal"
)

func TestCleanText(t *testing.T) {
	text := "\r\nLunes\r\n  CLAMO334   \n\n--\nSaludos, Ana\n> Martes\nhttp://example.test\nPENTH12\n"
	if got := cleanText(text); got != "Lunes\nCLAMO334\nPENTH12" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	if _, err := ExtractText(internal.InputSource("doc"), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractFromEmailRaw(t *testing.T) {
	raw := "From: Ana <ana@example.test>\r\n" +
		"To: ops@example.test\r\n" +
		"Subject: Programacion semana 12\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Lunes\r\nCLAMO334\r\nSaludos\r\n"
	ext, err := ExtractFromEmailRaw([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if ext.Subject != "Programacion semana 12" {
		t.Fatalf("subject=%q", ext.Subject)
	}
	if ext.Text != "Lunes\nCLAMO334" {
		t.Fatalf("text=%q", ext.Text)
	}
	if len(ext.AttachmentNames) != 0 {
		t.Fatalf("attachments=%v", ext.AttachmentNames)
	}
}

func TestReadInputTextKeepsPastedLines(t *testing.T) {
	raw := "Domingo\r\nGracias123\r\nCLAMO   334\n> CLAMO111\nhttpx12\n"
	text, err := ReadInput("text", raw)
	if err != nil {
		t.Fatal(err)
	}
	got := ParseProgramList(text, "CLAMO")
	want := ParseProgramList(raw, "CLAMO")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("read input changed the result (-want +got):\n%s", diff)
	}
	if len(got) != 1 || len(got[0].Programs) != 4 {
		t.Fatalf("days=%+v", got)
	}
	if got[0].Programs[1].Code != "CLAMO   334" {
		t.Fatalf("code=%q", got[0].Programs[1].Code)
	}
}
