package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hasdev/api-gateway/pkg/gwapi/schemas"
	"github.com/hasdev/api-gateway/pkg/gwapi/services"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/session"
	"github.com/hasdev/api-gateway/pkg/gwapi/services/todos"
)

func RegisterTodos(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "create-todo",
		Method:      http.MethodPost,
		Path:        "/api/todos",
		Summary:     "Create todo",
		Tags:        []string{TagTodos.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.CreateTodoRequest) (*schemas.TodoResponse, error) {
		p, err := session.RequireAuthenticated(ctx)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		todo, err := svcs.Todos.Create(ctx, p.AccountID, todos.CreateInput{
			Text:     input.Body.Text,
			PlanDate: input.Body.PlanDate,
			IsDone:   input.Body.IsDone,
		})
		if err != nil {
			return nil, httpError(svcs, err)
		}
		resp := &schemas.TodoResponse{}
		resp.Body.Todo = schemas.NewTodo(todo)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-todos",
		Method:      http.MethodGet,
		Path:        "/api/todos",
		Summary:     "List todos",
		Description: "Lists the caller's todos, one page at a time",
		Tags:        []string{TagTodos.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.ListTodosRequest) (*schemas.ListTodosResponse, error) {
		p, err := session.RequireAuthenticated(ctx)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		page, err := svcs.Todos.List(ctx, p.AccountID, todos.ListQuery{
			Page:  input.Page,
			Limit: input.Limit,
			Sort:  input.Sort,
			Order: input.Order,
		})
		if err != nil {
			return nil, httpError(svcs, err)
		}

		resp := &schemas.ListTodosResponse{}
		resp.Body.Todos = make([]schemas.Todo, 0, len(page.Todos))
		for i := range page.Todos {
			resp.Body.Todos = append(resp.Body.Todos, schemas.NewTodo(&page.Todos[i]))
		}
		resp.Body.Pagination = schemas.Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-todo",
		Method:      http.MethodGet,
		Path:        "/api/todos/{id}",
		Summary:     "Get todo",
		Tags:        []string{TagTodos.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.TodoIDRequest) (*schemas.TodoResponse, error) {
		p, err := session.RequireAuthenticated(ctx)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		todo, err := svcs.Todos.Get(ctx, p.AccountID, input.ID)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		resp := &schemas.TodoResponse{}
		resp.Body.Todo = schemas.NewTodo(todo)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-todo",
		Method:      http.MethodPatch,
		Path:        "/api/todos/{id}",
		Summary:     "Update todo",
		Description: "Changes only the fields present in the body",
		Tags:        []string{TagTodos.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.UpdateTodoRequest) (*schemas.TodoResponse, error) {
		p, err := session.RequireAuthenticated(ctx)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		todo, err := svcs.Todos.Update(ctx, p.AccountID, input.ID, todos.UpdateInput{
			Text:          input.Body.Text,
			IsDone:        input.Body.IsDone,
			PlanDate:      input.Body.PlanDate,
			ClearPlanDate: input.Body.ClearPlanDate,
		})
		if err != nil {
			return nil, httpError(svcs, err)
		}
		resp := &schemas.TodoResponse{}
		resp.Body.Todo = schemas.NewTodo(todo)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-todo",
		Method:        http.MethodDelete,
		Path:          "/api/todos/{id}",
		Summary:       "Delete todo",
		Tags:          []string{TagTodos.String()},
		Security:      BearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *schemas.TodoIDRequest) (*struct{}, error) {
		p, err := session.RequireAuthenticated(ctx)
		if err != nil {
			return nil, httpError(svcs, err)
		}
		if err := svcs.Todos.Delete(ctx, p.AccountID, input.ID); err != nil {
			return nil, httpError(svcs, err)
		}
		return &struct{}{}, nil
	})
}
