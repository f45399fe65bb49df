package handler

import (
	"context"
	"net/url"

	"github.com/deppfellow/datagate/internal/model"
	"github.com/deppfellow/datagate/internal/query"
	"github.com/deppfellow/datagate/internal/server"
	"github.com/deppfellow/datagate/internal/validation"
	"github.com/labstack/echo/v4"
)

// UserService is the service surface used by UserHandler.
type UserService interface {
	CreateUser(ctx context.Context, input model.CreateUserInput) (query.Record, error)
	ListUsers(ctx context.Context, params url.Values) (query.RecordSet, error)
	GetUser(ctx context.Context, field, value string) (query.Record, error)
}

type UserHandler struct {
	Handler
	users UserService
}

func NewUserHandler(s *server.Server, users UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name" validate:"required,max=255"`
}

func (r *CreateUserRequest) Validate() error {
	return validation.Struct(r)
}

// ListUsersRequest names the reserved ordering parameters. Every other
// query parameter is an equality filter and is read from the raw query.
type ListUsersRequest struct {
	OrderBy   string `query:"order_by"`
	Direction string `query:"direction"`
}

func (r *ListUsersRequest) Validate() error {
	return nil
}

type GetUserByIDRequest struct {
	UserID string `query:"user_id" validate:"required"`
}

func (r *GetUserByIDRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if !validation.IsValidUUID(r.UserID) {
		return validation.CustomValidationErrors{
			{Field: model.UserIDField, Message: "must be a valid UUID"},
		}
	}
	return nil
}

type GetUserByEmailRequest struct {
	Email string `query:"email" validate:"required"`
}

func (r *GetUserByEmailRequest) Validate() error {
	return validation.Struct(r)
}

type GetUserByNameRequest struct {
	Name string `query:"name" validate:"required"`
}

func (r *GetUserByNameRequest) Validate() error {
	return validation.Struct(r)
}

// CreateUser inserts a user and answers {"res":"success","data":{...}}.
func (h *UserHandler) CreateUser(c echo.Context, req *CreateUserRequest) (CreatedResponse, error) {
	record, err := h.users.CreateUser(c.Request().Context(), model.CreateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		return CreatedResponse{}, err
	}
	return CreatedResponse{Res: resultSuccess, Data: record}, nil
}

// ListUsers filters users on every query parameter except order_by and
// direction.
func (h *UserHandler) ListUsers(c echo.Context, _ *ListUsersRequest) (PayloadResponse, error) {
	records, err := h.users.ListUsers(c.Request().Context(), c.QueryParams())
	if err != nil {
		return PayloadResponse{}, err
	}
	return PayloadResponse{Payload: records}, nil
}

func (h *UserHandler) GetUserByID(c echo.Context, req *GetUserByIDRequest) (PayloadResponse, error) {
	return h.getOne(c, model.UserIDField, req.UserID)
}

func (h *UserHandler) GetUserByEmail(c echo.Context, req *GetUserByEmailRequest) (PayloadResponse, error) {
	return h.getOne(c, model.EmailField, req.Email)
}

func (h *UserHandler) GetUserByName(c echo.Context, req *GetUserByNameRequest) (PayloadResponse, error) {
	return h.getOne(c, model.NameField, req.Name)
}

func (h *UserHandler) getOne(c echo.Context, field, value string) (PayloadResponse, error) {
	record, err := h.users.GetUser(c.Request().Context(), field, value)
	if err != nil {
		return PayloadResponse{}, err
	}
	return PayloadResponse{Payload: record}, nil
}
