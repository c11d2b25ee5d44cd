package schemas

import (
	"time"

	"github.com/hasdev/api-gateway/pkg/db/models"
)

type Todo struct {
	ID        string     `json:"id" doc:"Todo id"`
	UserID    string     `json:"userId" doc:"Owner account id"`
	Text      string     `json:"text" doc:"Todo text"`
	IsDone    bool       `json:"isDone" doc:"Whether the todo is done"`
	PlanDate  *time.Time `json:"planDate,omitempty" doc:"Planned date"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewTodo(t *models.Todo) Todo {
	return Todo{
		ID:        t.ID,
		UserID:    t.UserID,
		Text:      t.Text,
		IsDone:    t.IsDone,
		PlanDate:  t.PlanDate,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type TodoResponse struct {
	Body struct {
		Todo Todo `json:"todo"`
	}
}

type CreateTodoRequest struct {
	Body struct {
		Text     string     `json:"text" doc:"Todo text" example:"Buy milk"`
		PlanDate *time.Time `json:"planDate,omitempty" doc:"Planned date"`
		IsDone   bool       `json:"isDone,omitempty" doc:"Initial done state"`
	}
}

type TodoIDRequest struct {
	ID string `path:"id" doc:"Todo id"`
}

type UpdateTodoRequest struct {
	ID   string `path:"id" doc:"Todo id"`
	Body struct {
		Text          *string    `json:"text,omitempty" doc:"New text"`
		IsDone        *bool      `json:"isDone,omitempty" doc:"New done state"`
		PlanDate      *time.Time `json:"planDate,omitempty" doc:"New planned date"`
		ClearPlanDate bool       `json:"clearPlanDate,omitempty" doc:"Remove the planned date"`
	}
}

type ListTodosRequest struct {
	Page  int    `query:"page" default:"1" minimum:"1" doc:"Page number"`
	Limit int    `query:"limit" default:"10" doc:"Page size, clamped to 1..100"`
	Sort  string `query:"sort" default:"createdAt" enum:"createdAt,updatedAt,planDate" doc:"Sort field"`
	Order string `query:"order" default:"desc" enum:"asc,desc" doc:"Sort order"`
}

type ListTodosResponse struct {
	Body struct {
		Todos      []Todo     `json:"todos"`
		Pagination Pagination `json:"pagination"`
	}
}

type DeleteTodoResponse struct {
	Status int `json:"-"`
}
