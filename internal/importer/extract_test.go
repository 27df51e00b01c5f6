package importer

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractText_PlainFormats(t *testing.T) {
	content := "Q?,a,b,c,d,0\n"
	for _, name := range []string{"quiz.txt", "quiz.csv", "QUIZ.TXT"} {
		got, err := ExtractText(name, []byte(content))
		if err != nil {
			t.Errorf("%s: expected no error, got %v", name, err)
			continue
		}
		if got != content {
			t.Errorf("%s: expected passthrough, got %q", name, got)
		}
	}
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	if _, err := ExtractText("quiz.exe", []byte("x")); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("zip write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText_DOCX(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Q one?,a,b,c,d,0</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Q &amp; two?,a,b,c,d,1</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := ExtractText("quiz.docx", buildDOCX(t, xml))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), text)
	}
	if lines[0] != "Q one?,a,b,c,d,0" {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	if lines[1] != "Q & two?,a,b,c,d,1" {
		t.Errorf("Expected entity decoded, got %q", lines[1])
	}
}

func TestExtractText_DOCXWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("word/other.xml")
	f.Write([]byte("<x/>"))
	w.Close()

	if _, err := ExtractText("quiz.docx", buf.Bytes()); err == nil {
		t.Error("Expected error when document.xml is missing")
	}
}

func TestExtractText_InvalidPDF(t *testing.T) {
	if _, err := ExtractText("quiz.pdf", []byte("not a pdf")); err == nil {
		t.Error("Expected error for invalid pdf bytes")
	}
}

func TestNormalizeExtractedText(t *testing.T) {
	in := "a\r\nb\r\r\n\n\nc  \n"
	got := normalizeExtractedText(in)
	if strings.Contains(got, "\r") {
		t.Errorf("Expected carriage returns removed, got %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("Expected blank runs collapsed, got %q", got)
	}
	if !strings.HasSuffix(got, "c") {
		t.Errorf("Expected trailing whitespace trimmed, got %q", got)
	}
}
