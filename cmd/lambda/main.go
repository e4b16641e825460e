package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"functions-sample-api/internal/config"
	"functions-sample-api/internal/logging"
	"functions-sample-api/internal/response"
	"functions-sample-api/pkg/lambda"
)

// payloadVersionEnv selects the API Gateway event format: "1.0" (REST) or "2.0" (HTTP API)
const payloadVersionEnv = "LAMBDA_PAYLOAD_VERSION"

func init() {
	if err := lambda.GetConnectionManager().Initialize(nil); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	container, err := lambda.GetConnectionManager().GetContainer(context.Background())
	if err != nil {
		panic("Failed to load container: " + err.Error())
	}
	if err := logging.Setup(container.Config.Log.Level, container.Config.Log.Format, os.Stdout); err != nil {
		panic("Failed to configure logging: " + err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"route_prefix": container.Dispatcher.Prefix(),
		"healthy":      lambda.GetConnectionManager().IsHealthy(),
	}).Info("Lambda host ready")
}

func shutdown() {
	if err := lambda.GetConnectionManager().Cleanup(); err != nil {
		logrus.WithError(err).Error("Failed to clean up function container")
		return
	}
	logrus.Info("Function container shut down")
}

func proxyHandler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	dispatcher, err := lambda.GetConnectionManager().Dispatcher(ctx)
	if err != nil {
		logrus.WithError(err).Error("Dispatcher unavailable")
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Headers:    map[string]string{response.ContentTypeHeader: response.ContentTypeJSON},
			Body:       `{"error": "internal error"}`,
		}, nil
	}
	return lambda.NewProxyHandler(dispatcher)(ctx, event)
}

func httpHandler(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	dispatcher, err := lambda.GetConnectionManager().Dispatcher(ctx)
	if err != nil {
		logrus.WithError(err).Error("Dispatcher unavailable")
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Headers:    map[string]string{response.ContentTypeHeader: response.ContentTypeJSON},
			Body:       `{"error": "internal error"}`,
		}, nil
	}
	return lambda.NewHTTPHandler(dispatcher)(ctx, event)
}

func main() {
	if config.GetEnv(payloadVersionEnv, "1.0") == "2.0" {
		awslambda.StartWithOptions(httpHandler, awslambda.WithEnableSIGTERM(shutdown))
		return
	}
	awslambda.StartWithOptions(proxyHandler, awslambda.WithEnableSIGTERM(shutdown))
}
