package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hasdev/api-gateway/pkg/gwapi/schemas"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/tools"
)

func RegisterTools(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "link-preview",
		Method:      http.MethodPost,
		Path:        "/api/tools/preview",
		Summary:     "Link preview",
		Description: "Fetches a page and returns its title, description and image",
		Tags:        []string{TagTools.String()},
	}, func(ctx context.Context, input *schemas.PreviewRequest) (*schemas.PreviewResponse, error) {
		meta, err := svcs.Preview.Preview(ctx, input.Body.URL)
		if err != nil {
			var perr *tools.PreviewError
			if !errors.As(err, &perr) {
				return nil, httpError(svcs, err)
			}
			return &schemas.PreviewResponse{
				Status: perr.Status,
				Body:   schemas.PreviewBody{Success: 0, Error: perr.Message},
			}, nil
		}

		return &schemas.PreviewResponse{
			Status: http.StatusOK,
			Body: schemas.PreviewBody{
				Success: 1,
				Meta: &schemas.PreviewMeta{
					Title:       meta.Title,
					Description: meta.Description,
					Image:       schemas.PreviewImage{URL: meta.ImageURL},
					URL:         meta.URL,
				},
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "current-time",
		Method:      http.MethodGet,
		Path:        "/api/tools/time",
		Summary:     "Current time",
		Description: "Returns the current time in the requested IANA time zone",
		Tags:        []string{TagTools.String()},
	}, func(ctx context.Context, input *schemas.TimeRequest) (*schemas.TimeResponse, error) {
		info, err := svcs.Clock.In(input.Timezone)
		if err != nil {
			if errors.Is(err, tools.ErrInvalidTimezone) {
				return nil, huma.Error400BadRequest("Invalid timezone: " + input.Timezone)
			}
			return nil, httpError(svcs, err)
		}

		resp := &schemas.TimeResponse{}
		resp.Body.Timezone = info.Timezone
		resp.Body.Datetime = info.Datetime
		resp.Body.Date = info.Date
		resp.Body.Time = info.Time
		resp.Body.Unix = info.Unix
		resp.Body.Offset = info.Offset
		resp.Body.Time12Hr = info.Time12Hr
		resp.Body.Time24Hr = info.Time24Hr
		resp.Body.DayOfWeek = info.DayOfWeek
		resp.Body.DayOfYear = info.DayOfYear
		return resp, nil
	})
}
