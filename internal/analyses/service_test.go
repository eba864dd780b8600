package analyses

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"jobfit-backend/internal/extract"
	extractmocks "jobfit-backend/internal/extract/mocks"
	"jobfit-backend/internal/matcher"
	"jobfit-backend/internal/shared/storage/object/local"
	"jobfit-backend/internal/shared/telemetry"
	"jobfit-backend/internal/shared/util"
)

const (
	resumeText = "Experienced Go developer. Built microservices with Docker and Kubernetes."
	jobText    = "Looking for a Go developer with Kubernetes, Terraform and AWS experience."
)

func TestAnalyzeExtractsAndMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := extractmocks.NewMockExtractor(ctrl)
	resume := []byte("%PDF-1.4 fake")
	extractor.EXPECT().
		Extract(gomock.Any(), resume, extract.MimePDF, "cv.pdf").
		Return(resumeText, nil)

	svc := NewService(extractor, matcher.Default(), nil, 0)
	got, err := svc.Analyze(context.Background(), Input{
		Resume:         resume,
		ResumeMimeType: "application/pdf",
		ResumeFileName: "cv.pdf",
		JobDescription: jobText,
	})
	require.NoError(t, err)
	assert.Equal(t, matcher.Analyze(resumeText, jobText), got)
}

func TestAnalyzeUsesConfiguredMatcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := extractmocks.NewMockExtractor(ctrl)
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("nothing relevant", nil)

	p := matcher.DefaultProfile()
	p.ScoreFloor = 0
	svc := NewService(extractor, matcher.New(p), nil, 0)

	got, err := svc.Analyze(context.Background(), Input{Resume: []byte("x"), ResumeFileName: "cv.txt", JobDescription: jobText})
	require.NoError(t, err)
	assert.Equal(t, 0, got.MatchScore)
}

func TestAnalyzeMissingInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{name: "blank job description", in: Input{Resume: []byte("resume"), JobDescription: "  \n\t"}},
		{name: "no resume", in: Input{JobDescription: jobText}},
		{name: "key without store", in: Input{ResumeKey: "documents/cv.pdf", JobDescription: jobText}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewService(extractmocks.NewMockExtractor(ctrl), nil, nil, 0)

			_, err := svc.Analyze(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrInputMissing)
		})
	}
}

func TestAnalyzeTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewService(extractmocks.NewMockExtractor(ctrl), nil, nil, 8)

	_, err := svc.Analyze(context.Background(), Input{Resume: []byte("123456789"), JobDescription: jobText})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestAnalyzeFromStoredKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "documents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "documents", "cv.txt"), []byte(resumeText), 0o644))

	ctrl := gomock.NewController(t)
	extractor := extractmocks.NewMockExtractor(ctrl)
	extractor.EXPECT().
		Extract(gomock.Any(), []byte(resumeText), extract.MimePlain, "cv.txt").
		Return(resumeText, nil)

	svc := NewService(extractor, nil, local.New(dir), 0)
	got, err := svc.Analyze(context.Background(), Input{ResumeKey: "documents/cv.txt", JobDescription: jobText})
	require.NoError(t, err)
	assert.Equal(t, matcher.Analyze(resumeText, jobText), got)
}

func TestAnalyzeStoredKeyErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), bytes.Repeat([]byte("a"), 32), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), nil, 0o644))

	tests := []struct {
		key  string
		want error
	}{
		{key: "missing.pdf", want: ErrDocumentNotFound},
		{key: "big.txt", want: ErrTooLarge},
		{key: "empty.txt", want: ErrInputMissing},
		{key: "../x", want: ErrInputMissing},
		{key: "/etc/passwd", want: ErrInputMissing},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewService(extractmocks.NewMockExtractor(ctrl), nil, local.New(dir), 16)

			_, err := svc.Analyze(context.Background(), Input{ResumeKey: tt.key, JobDescription: jobText})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnalyzePropagatesExtractionErrors(t *testing.T) {
	for _, sentinel := range []error{extract.ErrExtraction, extract.ErrUnsupportedType} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			extractor := extractmocks.NewMockExtractor(ctrl)
			extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return("", errors.Join(sentinel, errors.New("parser detail")))

			svc := NewService(extractor, nil, nil, 0)
			got, err := svc.Analyze(context.Background(), Input{Resume: []byte("data"), ResumeFileName: "cv.pdf", JobDescription: jobText})
			assert.ErrorIs(t, err, sentinel)
			assert.Equal(t, matcher.Result{}, got)
		})
	}
}

func TestAnalyzeLogsFingerprintNotContent(t *testing.T) {
	var logs bytes.Buffer
	restore := telemetry.SetOutput(&logs)
	defer restore()

	ctrl := gomock.NewController(t)
	extractor := extractmocks.NewMockExtractor(ctrl)
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(resumeText, nil)

	resume := []byte(resumeText)
	svc := NewService(extractor, nil, nil, 0)
	_, err := svc.Analyze(context.Background(), Input{Resume: resume, ResumeFileName: "cv.txt", JobDescription: jobText})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, `"msg":"analysis.complete"`)
	assert.Contains(t, out, util.Fingerprint(resume))
	assert.False(t, strings.Contains(out, "microservices"), "log output must not contain resume text")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(nil))
	assert.Equal(t, "invalid_input", Outcome(ErrTooLarge))
	assert.Equal(t, "not_found", Outcome(ErrDocumentNotFound))
	assert.Equal(t, "unsupported_type", Outcome(extract.ErrUnsupportedType))
	assert.Equal(t, "extraction_failed", Outcome(extract.ErrExtraction))
	assert.Equal(t, "canceled", Outcome(context.Canceled))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}
