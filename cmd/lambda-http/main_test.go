package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfit-backend/internal/bootstrap"
	"jobfit-backend/internal/shared/config"
)

func TestHandleProxiesToRouter(t *testing.T) {
	p := newProxy(func() (*bootstrap.App, error) {
		return bootstrap.Build(config.Config{
			Env:             "dev",
			CORSAllowOrigin: []string{"*"},
			ScoreFloor:      -1,
		})
	})

	resp, err := p.Handle(context.Background(), events.APIGatewayV2HTTPRequest{
		RawPath: "/api/health",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: http.MethodGet,
				Path:   "/api/health",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, resp.Body)
}

func TestHandleReportsBootstrapFailure(t *testing.T) {
	calls := 0
	p := newProxy(func() (*bootstrap.App, error) {
		calls++
		return nil, errors.New("bad profile")
	})

	for i := 0; i < 2; i++ {
		resp, err := p.Handle(context.Background(), events.APIGatewayV2HTTPRequest{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
		assert.Equal(t, "bootstrap_failed", body["code"])
	}
	assert.Equal(t, 1, calls)
}
