package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hasdev/api-gateway/pkg/gwapi/schemas"
)

func RegisterIndex(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/api",
		Summary:     "Root endpoint",
		Description: "Returns a welcome message, optionally addressed to name",
		Tags:        []string{TagGeneral.String()},
	}, func(ctx context.Context, input *schemas.HelloRequest) (*schemas.HelloResponse, error) {
		resp := &schemas.HelloResponse{}
		resp.Body.Message = "Hello from API"
		if input.Name != "" {
			resp.Body.Message += ", " + input.Name
		}
		return resp, nil
	})
}

func RegisterHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the gateway",
		Tags:        []string{TagGeneral.String()},
	}, func(ctx context.Context, input *struct{}) (*schemas.HealthResponse, error) {
		resp := &schemas.HealthResponse{}
		resp.Body.Status = "ok"
		return resp, nil
	})
}
