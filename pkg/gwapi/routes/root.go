package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
)

// RegisterAPI registers every operation. svcs may be EmptyServices when the
// API is only built to render its OpenAPI document.
func RegisterAPI(api huma.API, svcs *services.Services) {
	if svcs == nil {
		svcs = services.EmptyServices()
	}
	if svcs.Session != nil {
		api.UseMiddleware(svcs.Session.Middleware())
	}

	RegisterIndex(api)
	RegisterHealth(api)
	RegisterAuth(api, svcs)
	RegisterOAuth(api, svcs)
	RegisterUsers(api, svcs)
	RegisterTodos(api, svcs)
	RegisterTools(api, svcs)
}
