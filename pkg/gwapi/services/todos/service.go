// Package todos stores per-account todo items.
package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hasdev/api-gateway/pkg/db/models"
	"github.com/hasdev/api-gateway/pkg/gwapi/utils"
	"github.com/hasdev/api-gateway/pkg/gwerr"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound  = gwerr.New(gwerr.CodeNotFound, errors.New("todo not found"))
	ErrEmptyText = gwerr.New(gwerr.CodeInvalidInput, errors.New("text is required"))
)

// Sort columns accepted by List, keyed by their API name.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"planDate":  "plan_date",
}

type CreateInput struct {
	Text     string
	PlanDate *time.Time
	IsDone   bool
}

// UpdateInput changes only the non-nil fields. ClearPlanDate removes the
// plan date.
type UpdateInput struct {
	Text          *string
	IsDone        *bool
	PlanDate      *time.Time
	ClearPlanDate bool
}

type ListQuery struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

type Page struct {
	Todos      []models.Todo
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(database *bun.DB) *Service {
	return &Service{
		db:  database,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*models.Todo, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	now := s.now()
	todo := &models.Todo{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		IsDone:    in.IsDone,
		PlanDate:  utcPtr(in.PlanDate),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.db.NewInsert().Model(todo).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return todo, nil
}

// Get returns ErrNotFound for missing todos and for todos owned by someone
// else.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Todo, error) {
	todo := new(models.Todo)
	err := s.db.NewSelect().
		Model(todo).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select todo: %w", err)
	}
	return todo, nil
}

func (s *Service) List(ctx context.Context, userID string, q ListQuery) (*Page, error) {
	page, limit := utils.ClampPage(q.Page, q.Limit)

	column, ok := sortColumns[q.Sort]
	if !ok {
		column = sortColumns["createdAt"]
	}
	direction := "DESC"
	if strings.EqualFold(q.Order, "asc") {
		direction = "ASC"
	}

	var todos []models.Todo
	total, err := s.db.NewSelect().
		Model(&todos).
		Where("user_id = ?", userID).
		OrderExpr("? "+direction, bun.Ident(column)).
		OrderExpr("? "+direction, bun.Ident("id")).
		Offset((page - 1) * limit).
		Limit(limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return &Page{
		Todos:      todos,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: utils.TotalPages(total, limit),
	}, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*models.Todo, error) {
	todo, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return nil, ErrEmptyText
		}
		todo.Text = text
	}
	if in.IsDone != nil {
		todo.IsDone = *in.IsDone
	}
	if in.ClearPlanDate {
		todo.PlanDate = nil
	} else if in.PlanDate != nil {
		todo.PlanDate = utcPtr(in.PlanDate)
	}
	todo.UpdatedAt = s.now()

	_, err = s.db.NewUpdate().
		Model(todo).
		Column("text", "is_done", "plan_date", "updated_at").
		WherePK().
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.NewDelete().
		Model((*models.Todo)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
