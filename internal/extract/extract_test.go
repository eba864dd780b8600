package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t xml:space="preserve">Skills: Go, </w:t></w:r><w:r><w:t>Kubernetes</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", documentXML},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", f.name, err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			t.Fatalf("write zip entry %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_Docx(t *testing.T) {
	data := buildDocx(t, testDocumentXML)

	got, err := ExtractTextFromBytes(context.Background(), data, MimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if got != "Jane Doe\nSkills: Go, Kubernetes" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, testDocumentXML)

	got, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "test.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if !strings.Contains(got, "Kubernetes") {
		t.Fatalf("expected extracted text, got %q", got)
	}
}

func TestExtractTextFromBytes_OctetStreamSniffsDocx(t *testing.T) {
	data := buildDocx(t, testDocumentXML)

	if _, err := ExtractTextFromBytes(context.Background(), data, "application/octet-stream", "upload"); err != nil {
		t.Fatalf("expected sniffed docx to extract, got error: %v", err)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	got, err := ExtractTextFromBytes(context.Background(), []byte("Go developer"), "text/plain; charset=utf-8", "resume.txt")
	if err != nil {
		t.Fatalf("extract plain text: %v", err)
	}
	if got != "Go developer" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractTextFromBytes_MalformedPDF(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("%PDF-1.4\nthis is not really a pdf"),
		[]byte("%PDF-1.7\n1 0 obj << /Type /Catalog >> endobj\nstartxref\n999999\n%%EOF"),
	}
	for _, data := range inputs {
		_, err := ExtractTextFromBytes(context.Background(), data, MimePDF, "resume.pdf")
		if !errors.Is(err, ErrExtraction) {
			t.Fatalf("expected ErrExtraction for %q, got %v", data, err)
		}
	}
}

func TestExtractTextFromBytes_CorruptDocx(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("PK not a zip"), MimeDOCX, "resume.docx")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractTextFromBytes_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("text"), MimePlain, "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		fileName string
		data     []byte
		want     string
	}{
		{name: "strips parameters", mimeType: "Application/PDF; charset=binary", want: MimePDF},
		{name: "extension when missing", mimeType: "", fileName: "cv.PDF", want: MimePDF},
		{name: "extension for octet stream", mimeType: "application/octet-stream", fileName: "cv.txt", want: MimePlain},
		{name: "sniffs pdf", mimeType: "", fileName: "upload", data: []byte("%PDF-1.4\n"), want: MimePDF},
		{name: "sniffs text", mimeType: "application/octet-stream", fileName: "upload", data: []byte("plain words"), want: MimePlain},
		{name: "declared type wins", mimeType: "application/msword", fileName: "cv.docx", want: "application/msword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMimeType(tt.mimeType, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("NormalizeMimeType(%q, %q) = %q, want %q", tt.mimeType, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestStripDocxXMLMalformedReturnsRaw(t *testing.T) {
	raw := "<w:p><w:t>unterminated"
	if got := stripDocxXML(raw); got != raw {
		t.Fatalf("expected raw passthrough, got %q", got)
	}
}
