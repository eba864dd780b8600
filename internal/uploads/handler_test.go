package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
)

func testPresigner() *s3.PresignClient {
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	}
	return s3.NewPresignClient(s3.NewFromConfig(cfg))
}

func TestPresignSignedHeadersExcludeContentLength(t *testing.T) {
	input := presignInput("bucket", "documents/abc-file.pdf", "")
	out, err := testPresigner().PresignPutObject(context.Background(), input)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	parsed, err := url.Parse(out.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	signed := parsed.Query().Get("X-Amz-SignedHeaders")
	if signed == "" {
		t.Fatalf("expected X-Amz-SignedHeaders")
	}
	if strings.Contains(signed, "content-length") {
		t.Fatalf("unexpected content-length in signed headers: %s", signed)
	}
	if !strings.Contains(signed, "host") {
		t.Fatalf("expected host in signed headers: %s", signed)
	}
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func postPresign(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/presign", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPresignUploadReturnsKey(t *testing.T) {
	h := NewHandlerWithPresigner(testPresigner(), "bucket", "uploads", 1024)
	h.newID = func() string { return "id-1" }

	resp := postPresign(newRouter(h), `{"fileName":"My CV.pdf","contentType":"application/pdf","sizeBytes":100}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got presignResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.S3Key != "uploads/id-1-My CV.pdf" {
		t.Fatalf("unexpected key: %q", got.S3Key)
	}
	if got.ExpiresInSeconds != 900 {
		t.Fatalf("unexpected expiry: %d", got.ExpiresInSeconds)
	}
	if !strings.Contains(got.UploadURL, "X-Amz-Signature=") {
		t.Fatalf("expected signed url, got %q", got.UploadURL)
	}
}

func TestPresignUploadValidation(t *testing.T) {
	h := NewHandlerWithPresigner(testPresigner(), "bucket", "", 1024)
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed", body: `{`, want: http.StatusBadRequest},
		{name: "no file name", body: `{"contentType":"application/pdf","sizeBytes":1}`, want: http.StatusBadRequest},
		{name: "bad type", body: `{"fileName":"a.png","contentType":"image/png","sizeBytes":1}`, want: http.StatusUnsupportedMediaType},
		{name: "zero size", body: `{"fileName":"a.pdf","contentType":"application/pdf","sizeBytes":0}`, want: http.StatusBadRequest},
		{name: "too large", body: `{"fileName":"a.pdf","contentType":"application/pdf","sizeBytes":2048}`, want: http.StatusRequestEntityTooLarge},
		{name: "traversal", body: `{"fileName":"../a.pdf","contentType":"application/pdf","sizeBytes":1}`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postPresign(newRouter(h), tt.body)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, resp.Code, resp.Body.String())
			}
		})
	}
}

type failingPresigner struct{}

func (failingPresigner) PresignPutObject(context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return nil, errors.New("no credentials")
}

func TestPresignUploadFailure(t *testing.T) {
	h := NewHandlerWithPresigner(failingPresigner{}, "bucket", "", 0)
	resp := postPresign(newRouter(h), `{"fileName":"a.docx","contentType":"application/vnd.openxmlformats-officedocument.wordprocessingml.document","sizeBytes":10}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
