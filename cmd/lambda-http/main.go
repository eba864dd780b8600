// Command lambda-http serves the jobfit API from AWS Lambda behind an API
// Gateway HTTP API.
//
//	GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"jobfit-backend/internal/bootstrap"
	"jobfit-backend/internal/shared/config"
	"jobfit-backend/internal/shared/server/respond"
	"jobfit-backend/internal/shared/telemetry"
)

// proxy lazily builds the app once per container; a failed build is reported
// on every invocation instead of crashing the runtime.
type proxy struct {
	once  sync.Once
	build func() (*bootstrap.App, error)
	gin   *ginadapter.GinLambdaV2
	err   error
}

func newProxy(build func() (*bootstrap.App, error)) *proxy {
	return &proxy{build: build}
}

func (p *proxy) init() {
	app, err := p.build()
	if err != nil {
		p.err = err
		telemetry.Error("lambda.bootstrap.failed", map[string]any{"error": err})
		return
	}
	p.gin = ginadapter.NewV2(app.Router)
}

func (p *proxy) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	p.once.Do(p.init)
	if p.err != nil || p.gin == nil {
		return errorResponse(http.StatusInternalServerError, "bootstrap_failed", "service unavailable"), nil
	}
	return p.gin.ProxyWithContext(ctx, req)
}

func errorResponse(status int, code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: message, Code: code})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	p := newProxy(func() (*bootstrap.App, error) {
		return bootstrap.Build(config.Load())
	})
	lambda.Start(p.Handle)
}
