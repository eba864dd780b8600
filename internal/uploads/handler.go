package uploads

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/shared/server/respond"
	"jobfit-backend/internal/shared/telemetry"
	"jobfit-backend/internal/shared/util"
)

const (
	presignExpires       = 15 * time.Minute
	defaultRegion        = "us-east-1"
	defaultUploadsPrefix = "documents/"
	defaultMaxBytes      = 5 << 20
)

var allowedContentTypes = map[string]struct{}{
	extract.MimePDF:   {},
	extract.MimeDOCX:  {},
	extract.MimePlain: {},
}

// PresignAPI is the subset of the S3 presign client used by Handler.
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Handler issues presigned PUT URLs so clients can upload a resume and then
// analyze it by key.
type Handler struct {
	presign  PresignAPI
	bucket   string
	prefix   string
	maxBytes int64
	newID    func() string
}

// NewHandler loads AWS configuration and builds a presigning Handler.
func NewHandler(ctx context.Context, region, bucket, prefix string, maxBytes int64) (*Handler, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("uploads bucket is required")
	}
	if strings.TrimSpace(region) == "" {
		region = defaultRegion
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewHandlerWithPresigner(s3.NewPresignClient(s3.NewFromConfig(cfg)), bucket, prefix, maxBytes), nil
}

// NewHandlerWithPresigner builds a Handler around an existing presigner.
func NewHandlerWithPresigner(presign PresignAPI, bucket, prefix string, maxBytes int64) *Handler {
	prefix = strings.TrimLeft(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = defaultUploadsPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Handler{
		presign:  presign,
		bucket:   bucket,
		prefix:   prefix,
		maxBytes: maxBytes,
		newID:    uuid.NewString,
	}
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	S3Key            string `json:"s3Key"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// RegisterRoutes attaches the presign route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/presign", h.presignUpload)
}

func (h *Handler) presignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.ToLower(strings.TrimSpace(strings.Split(req.ContentType, ";")[0]))

	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "fileName is required")
		return
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "contentType is not allowed")
		return
	}
	if req.SizeBytes <= 0 {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "sizeBytes must be positive")
		return
	}
	if req.SizeBytes > h.maxBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "sizeBytes exceeds limit")
		return
	}

	sanitized, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "invalid fileName")
		return
	}

	key := h.prefix + h.newID() + "-" + sanitized
	out, err := h.presign.PresignPutObject(c.Request.Context(), presignInput(h.bucket, key, req.ContentType), func(opts *s3.PresignOptions) {
		opts.Expires = presignExpires
	})
	if err != nil {
		telemetry.Error("uploads.presign.failed", map[string]any{
			"err":          err,
			"bucket":       h.bucket,
			"key":          key,
			"content_type": req.ContentType,
			"size_bytes":   req.SizeBytes,
			"request_id":   c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to generate upload url")
		return
	}

	respond.OK(c, presignResponse{
		UploadURL:        out.URL,
		S3Key:            key,
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}

func presignInput(bucket, key, contentType string) *s3.PutObjectInput {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	return input
}
