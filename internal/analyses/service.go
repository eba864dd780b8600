package analyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/matcher"
	"jobfit-backend/internal/shared/metrics"
	"jobfit-backend/internal/shared/storage/object"
	"jobfit-backend/internal/shared/telemetry"
	"jobfit-backend/internal/shared/util"
)

// DefaultMaxUploadBytes bounds resume payloads when Service.MaxUploadBytes is unset.
const DefaultMaxUploadBytes = 5 << 20

// Input is one analysis request. Resume bytes take precedence over ResumeKey.
type Input struct {
	Resume         []byte
	ResumeMimeType string
	ResumeFileName string
	ResumeKey      string
	JobDescription string
}

// Service runs extraction and matching for a single resume and job description.
type Service struct {
	Extractor      extract.Extractor
	Matcher        *matcher.Matcher
	Source         object.Source
	MaxUploadBytes int64
	Now            func() time.Time
}

// NewService builds a Service. A nil source disables resume keys.
func NewService(extractor extract.Extractor, m *matcher.Matcher, source object.Source, maxUploadBytes int64) *Service {
	return &Service{
		Extractor:      extractor,
		Matcher:        m,
		Source:         source,
		MaxUploadBytes: maxUploadBytes,
		Now:            time.Now,
	}
}

// Analyze extracts the resume text and scores it against the job description.
func (s *Service) Analyze(ctx context.Context, in Input) (matcher.Result, error) {
	start := s.now()
	fields := map[string]any{}

	result, err := s.analyze(ctx, in, fields)
	elapsed := s.now().Sub(start)
	outcome := Outcome(err)
	metrics.ObserveAnalysis(outcome, elapsed)

	fields["outcome"] = outcome
	fields["duration_ms"] = float64(elapsed.Microseconds()) / 1000.0
	if err != nil {
		fields["error"] = err
		telemetry.Warn("analysis.failed", fields)
		return matcher.Result{}, err
	}

	metrics.ObserveMatchScore(result.MatchScore)
	fields["match_score"] = result.MatchScore
	fields["missing_count"] = len(result.MissingKeywords)
	telemetry.Info("analysis.complete", fields)
	return result, nil
}

func (s *Service) analyze(ctx context.Context, in Input, fields map[string]any) (matcher.Result, error) {
	if strings.TrimSpace(in.JobDescription) == "" {
		return matcher.Result{}, fmt.Errorf("%w: job description is blank", ErrInputMissing)
	}

	data, fileName, err := s.loadResume(ctx, in)
	if err != nil {
		return matcher.Result{}, err
	}
	mimeType := extract.NormalizeMimeType(in.ResumeMimeType, fileName, data)
	fields["resume_sha256"] = util.Fingerprint(data)
	fields["resume_bytes"] = len(data)
	fields["mime_type"] = mimeType

	text, err := s.Extractor.Extract(ctx, data, mimeType, fileName)
	if err != nil {
		if errors.Is(err, extract.ErrExtraction) {
			metrics.IncExtractionFailure(mimeType)
		}
		return matcher.Result{}, fmt.Errorf("extract resume: %w", err)
	}

	m := s.Matcher
	if m == nil {
		m = matcher.Default()
	}
	return m.AnalyzeDocuments(
		matcher.Document{Source: matcher.SourceResume, Text: text},
		matcher.Document{Source: matcher.SourceJobDescription, Text: in.JobDescription},
	), nil
}

func (s *Service) loadResume(ctx context.Context, in Input) ([]byte, string, error) {
	limit := s.maxUploadBytes()
	if len(in.Resume) > 0 {
		if int64(len(in.Resume)) > limit {
			return nil, "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(in.Resume))
		}
		return in.Resume, in.ResumeFileName, nil
	}

	key := strings.TrimSpace(in.ResumeKey)
	if key == "" {
		return nil, "", fmt.Errorf("%w: resume is empty", ErrInputMissing)
	}
	if s.Source == nil {
		return nil, "", fmt.Errorf("%w: resume_key given but no document store is configured", ErrInputMissing)
	}

	rc, err := s.Source.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %s", ErrDocumentNotFound, key)
		}
		if errors.Is(err, object.ErrInvalidKey) {
			return nil, "", fmt.Errorf("%w: invalid resume_key %q", ErrInputMissing, key)
		}
		return nil, "", fmt.Errorf("open resume %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("read resume %s: %w", key, err)
	}
	if int64(len(data)) > limit {
		return nil, "", fmt.Errorf("%w: %s", ErrTooLarge, key)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: stored resume %s is empty", ErrInputMissing, key)
	}

	fileName := in.ResumeFileName
	if fileName == "" {
		fileName = path.Base(key)
	}
	return data, fileName, nil
}

func (s *Service) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
