package lambdaapi

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/documents"
	"github.com/journeyhouse/onboarding/internal/server"
	"github.com/journeyhouse/onboarding/internal/templates"
)

func header(resp events.APIGatewayProxyResponse, key string) string {
	return http.Header(resp.MultiValueHeaders).Get(key)
}

func TestHandle_BuildsRequest(t *testing.T) {
	var got *http.Request
	var body []byte
	a := New(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}), nil)

	ev := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/generatepdf",
		MultiValueHeaders: map[string][]string{
			"Content-Type":  {"application/json"},
			"Authorization": {"Bearer token"},
			"X-Trace":       {"a", "b"},
		},
		MultiValueQueryStringParameters: map[string][]string{"tag": {"x", "y"}},
		Body:                            `{"firstName":"Jane"}`,
		RequestContext: events.APIGatewayProxyRequestContext{
			Identity: events.APIGatewayRequestIdentity{SourceIP: "203.0.113.9"},
		},
	}

	resp, err := a.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/generatepdf", got.URL.Path)
	assert.Equal(t, []string{"x", "y"}, got.URL.Query()["tag"])
	assert.Equal(t, "Bearer token", got.Header.Get("Authorization"))
	assert.Equal(t, []string{"a", "b"}, got.Header.Values("X-Trace"))
	assert.Equal(t, "203.0.113.9", got.RemoteAddr)
	assert.Equal(t, ev.Body, string(body))
}

func TestHandle_Base64Body(t *testing.T) {
	var body []byte
	a := New(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}), nil)

	_, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/api/intake",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestHandle_JSONResponse(t *testing.T) {
	a := New(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"`+r.URL.Path+`"}`)
	}), nil)

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/api/generatepdf"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, resp.IsBase64Encoded)
	assert.JSONEq(t, `{"error":"/api/generatepdf"}`, resp.Body)
	assert.Equal(t, "application/json", header(resp, "Content-Type"))
}

func TestHandle_BinaryResponseIsBase64(t *testing.T) {
	pdf := []byte("%PDF-1.4\x00\xff binary")
	a := New(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="Jane_Doe_ethics.pdf"`)
		_, _ = w.Write(pdf)
	}), nil)

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, resp.IsBase64Encoded)
	decoded, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)
	assert.Equal(t, `attachment; filename="Jane_Doe_ethics.pdf"`, header(resp, "Content-Disposition"))
}

func TestHandle_ValidUTF8PDFIsStillBase64(t *testing.T) {
	pdf := []byte("%PDF-1.4 plain ascii body")
	a := New(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
		_, _ = w.Write(pdf)
	}), nil)

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/"})
	require.NoError(t, err)

	require.True(t, resp.IsBase64Encoded)
	decoded, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pdf, decoded)
}

func TestHandle_EmptyResponse(t *testing.T) {
	a := New(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), nil)

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions, Path: "/api/intake"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
}

func TestHandle_MalformedEvent(t *testing.T) {
	called := false
	a := New(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }), nil)

	resp, err := a.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"malformed request"}`, resp.Body)
	assert.False(t, called)
}

func TestIsText(t *testing.T) {
	tests := map[string]bool{
		"":                                true,
		"application/json":                true,
		"application/json; charset=utf-8": true,
		"text/plain; charset=utf-8":       true,
		"application/problem+json":        true,
		"application/pdf":                 false,
		"application/octet-stream":        false,
		";;":                              false,
	}
	for ct, want := range tests {
		assert.Equal(t, want, isText(ct), ct)
	}
}

func TestHandle_GeneratePDFThroughServer(t *testing.T) {
	store, err := templates.NewStore(context.Background(), templates.EmbeddedSource(), nil)
	require.NoError(t, err)
	cfg := config.Defaults()
	srv := server.New(&cfg, server.Deps{
		Assembler: documents.NewAssembler(documents.NewRegistry(store, nil), nil),
	})
	t.Cleanup(srv.Close)

	resp, err := New(srv.Handler(), nil).Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:        http.MethodPost,
		Path:              "/api/generatepdf",
		MultiValueHeaders: map[string][]string{"Content-Type": {"application/json"}},
		Body:              `{"firstName":"Jane","lastName":"Doe","documentTypes":["ethics"]}`,
		RequestContext: events.APIGatewayProxyRequestContext{
			Identity: events.APIGatewayRequestIdentity{SourceIP: "203.0.113.9"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
	require.True(t, resp.IsBase64Encoded)
	pdf, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))
	assert.Equal(t, `attachment; filename="Jane_Doe_ethics.pdf"`, header(resp, "Content-Disposition"))
	assert.Equal(t, strconv.Itoa(len(pdf)), header(resp, "Content-Length"))
	assert.Equal(t, config.DefaultAllowedOrigin, header(resp, "Access-Control-Allow-Origin"))
}
