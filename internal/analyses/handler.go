package analyses

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/matcher"
	"jobfit-backend/internal/report"
	"jobfit-backend/internal/shared/metrics"
	"jobfit-backend/internal/shared/server/middleware"
	"jobfit-backend/internal/shared/server/respond"
	"jobfit-backend/internal/shared/telemetry"
)

const (
	// multipartOverhead leaves room for form boundaries and the job description.
	multipartOverhead = 1 << 20
	// maxReportRequestBytes bounds the JSON body of a report download.
	maxReportRequestBytes = 1 << 20
)

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc *Service
	Now func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, Now: time.Now}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-resume", h.analyzeResume)
	rg.POST("/download-resume", h.downloadReport)
}

func (h *Handler) analyzeResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.maxUploadBytes()+multipartOverhead)

	// The file is read before any form value so a body over the limit
	// surfaces as *http.MaxBytesError instead of empty fields.
	var in Input
	if err := h.readResumeFile(c, &in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fail(c, ErrTooLarge)
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_input", "Unable to read resume file")
		return
	}
	in.JobDescription = c.PostForm("job_description")
	in.ResumeKey = strings.TrimSpace(c.PostForm("resume_key"))

	result, err := h.Svc.Analyze(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Set(middleware.AnalysisOutcomeKey, metrics.OutcomeSuccess)
	c.Set(middleware.MatchScoreKey, result.MatchScore)
	respond.OK(c, result)
}

// readResumeFile fills in from the "resume" form file. A missing file is not
// an error here; the service decides whether a key can stand in for it.
func (h *Handler) readResumeFile(c *gin.Context, in *Input) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil
		}
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.Svc.maxUploadBytes()+1))
	if err != nil {
		return err
	}
	in.Resume = data
	in.ResumeFileName = fileHeader.Filename
	in.ResumeMimeType = fileHeader.Header.Get("Content-Type")
	return nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.Set(middleware.AnalysisOutcomeKey, Outcome(err))
	switch {
	case errors.Is(err, ErrInputMissing):
		respond.Error(c, http.StatusBadRequest, "invalid_input", "Missing resume file or job description")
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "Resume file is too large")
	case errors.Is(err, ErrDocumentNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume document not found")
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "Unsupported resume format. Upload a PDF, DOCX or plain text file")
	case errors.Is(err, extract.ErrExtraction):
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "Could not read text from the resume file")
	default:
		telemetry.Error("analysis.unexpected", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "internal", "Failed to analyze resume")
	}
}

type downloadRequest struct {
	Analysis *matcher.Result `json:"analysis"`
}

func (h *Handler) downloadReport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxReportRequestBytes)

	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "request body is too large")
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}
	if req.Analysis == nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "analysis is required")
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	data, err := report.Render(*req.Analysis, now())
	if err != nil {
		if errors.Is(err, report.ErrInvalidResult) {
			respond.Error(c, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "Failed to generate report")
		return
	}

	metrics.IncReportRendered()
	respond.Attachment(c, report.FileName, report.ContentType, data)
}
