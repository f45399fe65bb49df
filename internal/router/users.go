package router

import (
	"net/http"

	"github.com/deppfellow/datagate/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerUserRoutes keeps the route names of the service this API
// replaces, so existing clients need no changes.
func registerUserRoutes(r *echo.Echo, h *handler.Handlers) {
	users := h.Users

	r.POST("/add_users", handler.Handle(users.Handler, users.CreateUser, http.StatusCreated))
	r.GET("/get_users", handler.Handle(users.Handler, users.ListUsers, http.StatusOK))
	r.GET("/get_one_usersuser_id", handler.Handle(users.Handler, users.GetUserByID, http.StatusOK))
	r.GET("/get_one_usersemail", handler.Handle(users.Handler, users.GetUserByEmail, http.StatusOK))
	r.GET("/get_one_usersname", handler.Handle(users.Handler, users.GetUserByName, http.StatusOK))
}
