package main

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"crm-assistant-api/internal/config"
	"crm-assistant-api/pkg/lambda"
	"crm-assistant-api/pkg/server"
)

var container *server.Container

func init() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(context.Background(), cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Under a {proxy+} resource the path parameter arrives without its
	// leading slash; normalize so both forms dispatch identically
	path := event.PathParameters["proxy"]
	if path == "" {
		path = event.Path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req := &lambda.Request{
		Method:      event.HTTPMethod,
		Path:        path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        []byte(event.Body),
	}

	resp, err := container.Router.Handle(ctx, req)
	if err != nil {
		// Store failures and malformed input surface as invocation
		// errors, not shaped responses
		return events.APIGatewayProxyResponse{}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}, nil
}

func main() {
	awslambda.Start(handler)
}
