package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

//go:generate mockgen -source=./extract.go -destination=./mocks/extractor.mock.go -package=extractmocks Extractor

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"

	mimeZip         = "application/zip"
	mimeOctetStream = "application/octet-stream"
)

var (
	// ErrUnsupportedType is returned for document types the extractor cannot read.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrExtraction is returned when a supported document cannot be parsed.
	ErrExtraction = errors.New("document text extraction failed")
)

// Extractor turns a binary document into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

// DocumentExtractor reads PDF, DOCX and plain text documents.
type DocumentExtractor struct{}

// New returns a DocumentExtractor.
func New() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Extract implements Extractor.
func (e *DocumentExtractor) Extract(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	return ExtractTextFromBytes(ctx, data, mimeType, fileName)
}

// ExtractTextFromBytes extracts text from an in-memory payload.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized := NormalizeMimeType(mimeType, fileName, data)
	var (
		text string
		err  error
	)
	switch normalized {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	case MimePlain:
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, normalized, err)
	}
	return text, nil
}

// extractPDF recovers from parser panics, which ledongthuc/pdf raises on some
// malformed inputs.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML keeps character data and breaks lines at paragraph and break
// elements. Malformed XML is returned as-is.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// NormalizeMimeType resolves the effective document type from the declared type,
// the payload and the file name.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == "" || clean == mimeOctetStream {
		if byExt := mimeFromExt(fileName); byExt != "" {
			clean = byExt
		} else if len(data) > 0 {
			clean = strings.ToLower(strings.TrimSpace(strings.Split(http.DetectContentType(data), ";")[0]))
		}
	}
	if clean != mimeZip {
		return clean
	}

	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}
	if mimeFromExt(fileName) == MimeDOCX {
		return MimeDOCX
	}
	return clean
}

func mimeFromExt(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimePlain
	default:
		return ""
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		switch name {
		case "word/document.xml":
			return MimeDOCX
		case "xl/workbook.xml":
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "ppt/presentation.xml":
			return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
		}
	}
	return ""
}
