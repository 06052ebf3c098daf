// Package lambdaapi serves an http.Handler behind API Gateway proxy events.
package lambdaapi

import (
	"context"
	"encoding/base64"
	"mime"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"go.uber.org/zap"

	"github.com/journeyhouse/onboarding/internal/logging"
)

// Adapter converts proxy events into HTTP requests for handler.
type Adapter struct {
	proxy  *httpadapter.HandlerAdapter
	logger *zap.Logger
}

// New creates an Adapter for handler.
func New(handler http.Handler, logger *zap.Logger) *Adapter {
	return &Adapter{
		proxy:  httpadapter.New(handler),
		logger: logging.OrNop(logger),
	}
}

// Handle serves one API Gateway proxy event.
func (a *Adapter) Handle(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := a.proxy.ProxyWithContext(ctx, ev)
	if err != nil {
		a.logger.Warn("rejected malformed proxy event", zap.String("path", ev.Path), zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"malformed request"}`,
		}, nil
	}
	return encodeBinary(resp), nil
}

// encodeBinary base64 encodes bodies that are not text. The proxy only encodes
// bodies that are invalid UTF-8, and a PDF can happen to be valid UTF-8.
func encodeBinary(resp events.APIGatewayProxyResponse) events.APIGatewayProxyResponse {
	if resp.IsBase64Encoded || resp.Body == "" {
		return resp
	}
	if isText(http.Header(resp.MultiValueHeaders).Get("Content-Type")) {
		return resp
	}
	resp.Body = base64.StdEncoding.EncodeToString([]byte(resp.Body))
	resp.IsBase64Encoded = true
	return resp
}

// isText reports whether a body of contentType can travel as a plain string.
func isText(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/json",
		mediaType == "application/xml",
		mediaType == "application/javascript",
		strings.HasSuffix(mediaType, "+json"),
		strings.HasSuffix(mediaType, "+xml"):
		return true
	}
	return false
}
