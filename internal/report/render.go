// Package report renders an analysis result as a downloadable DOCX report.
package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobfit-backend/internal/matcher"
)

// FileName is the attachment name used for downloads.
const FileName = "resume-optimization-report.docx"

// ContentType is the DOCX media type.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ErrInvalidResult is returned for results that could not come from the matcher.
var ErrInvalidResult = errors.New("invalid analysis result")

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`
	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`
	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

	documentStart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentEnd = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`
)

// ScoreBand returns the one-line verdict shown next to a score.
func ScoreBand(score int) string {
	switch {
	case score >= 80:
		return "Excellent match! Your resume aligns well with the job requirements."
	case score >= 60:
		return "Good match with room for improvement. Follow the suggestions below."
	default:
		return "Significant improvements needed to match job requirements."
	}
}

// Validate checks the score range and that the advisory lists are present.
// The missing keyword count is not checked since its cap depends on the profile.
func Validate(result matcher.Result) error {
	if result.MatchScore < 0 || result.MatchScore > 100 {
		return fmt.Errorf("%w: match score %d out of range", ErrInvalidResult, result.MatchScore)
	}
	if len(result.ATSSuggestions) == 0 {
		return fmt.Errorf("%w: ats suggestions are required", ErrInvalidResult)
	}
	if len(result.ImprovementTips) == 0 {
		return fmt.Errorf("%w: improvement tips are required", ErrInvalidResult)
	}
	return nil
}

// Render builds the DOCX report for result.
func Render(result matcher.Result, generatedAt time.Time) ([]byte, error) {
	if err := Validate(result); err != nil {
		return nil, err
	}

	documentXML := renderDocumentXML(result, generatedAt)

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", documentXML},
	}
	for _, part := range parts {
		if err := writeZipFile(writer, part.name, generatedAt, []byte(part.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func renderDocumentXML(result matcher.Result, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString(documentStart)

	writeParagraph(&b, titleStyle, "Resume Optimization Report")
	writeParagraph(&b, metaStyle, "Generated "+generatedAt.UTC().Format("January 2, 2006 15:04 MST"))

	writeParagraph(&b, headingStyle, "Match Score")
	writeParagraph(&b, scoreStyle, strconv.Itoa(result.MatchScore)+"%")
	writeParagraph(&b, bodyStyle, ScoreBand(result.MatchScore))

	writeParagraph(&b, headingStyle, "Missing Keywords")
	if len(result.MissingKeywords) == 0 {
		writeParagraph(&b, bodyStyle, "Your resume already covers the job description keywords.")
	} else {
		writeParagraph(&b, bodyStyle, "Consider adding these keywords from the job description:")
		writeParagraph(&b, bodyStyle, strings.Join(result.MissingKeywords, ", "))
	}

	writeParagraph(&b, headingStyle, "ATS Optimization")
	for _, s := range result.ATSSuggestions {
		writeParagraph(&b, bodyStyle, "• "+s)
	}

	writeParagraph(&b, headingStyle, "Improvement Tips")
	for i, tip := range result.ImprovementTips {
		writeParagraph(&b, bodyStyle, strconv.Itoa(i+1)+". "+tip)
	}

	b.WriteString(documentEnd)
	return b.String()
}

func writeParagraph(b *strings.Builder, style RunStyle, text string) {
	b.WriteString("<w:p><w:r>")
	writeRunProperties(b, style)
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</w:t></w:r></w:p>")
}

func writeRunProperties(b *strings.Builder, style RunStyle) {
	if style == (RunStyle{}) {
		return
	}
	b.WriteString("<w:rPr>")
	if style.Bold {
		b.WriteString("<w:b/>")
	}
	if style.Italic {
		b.WriteString("<w:i/>")
	}
	if style.Color != "" {
		b.WriteString(`<w:color w:val="` + style.Color + `"/>`)
	}
	if style.Size > 0 {
		b.WriteString(`<w:sz w:val="` + strconv.Itoa(style.Size) + `"/>`)
	}
	b.WriteString("</w:rPr>")
}

func writeZipFile(writer *zip.Writer, name string, modified time.Time, content []byte) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	}
	dst, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = dst.Write(content)
	return err
}
