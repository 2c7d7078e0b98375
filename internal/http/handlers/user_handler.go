package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

// ListUsers defaults to the caller's account.
func ListUsers(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.UserDTO]](c, e, app.ListUsersQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
			Status:    c.Query("status"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

// CreateUser creates an Active user when a password is given, otherwise an Invited one.
func CreateUser(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email     string   `json:"email" binding:"required,email"`
			Name      string   `json:"name" binding:"required"`
			AccountID string   `json:"accountId"`
			Password  string   `json:"password"`
			RoleIDs   []string `json:"roleIds"`
		}
		if !bind(c, &in) {
			return
		}
		u, ok := send[*app.UserDTO](c, e, app.CreateUserCommand{
			Email:     in.Email,
			Name:      in.Name,
			AccountID: accountScope(c, in.AccountID),
			Password:  in.Password,
			RoleIDs:   in.RoleIDs,
		})
		if ok {
			response.Created(c, location("/api/users", u.ID), u)
		}
	}
}

func GetUser(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.UserDTO](c, e, app.GetUserQuery{ID: c.Param("id")})
	}
}

func UpdateUser(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.UserDTO](c, e, app.UpdateUserCommand{ID: c.Param("id"), Name: in.Name, Email: in.Email})
	}
}

func ActivateUser(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.UserDTO](c, e, app.ActivateUserCommand{ID: c.Param("id")})
	}
}

func DeactivateUser(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Reason string `json:"reason"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.UserDTO](c, e, app.DeactivateUserCommand{ID: c.Param("id"), Reason: in.Reason})
	}
}

// LockUser takes a Go duration such as "2h". An empty duration locks until unlocked.
func LockUser(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Reason   string `json:"reason"`
			Duration string `json:"duration"`
		}
		if !bind(c, &in) {
			return
		}
		var d time.Duration
		if in.Duration != "" {
			var err error
			if d, err = time.ParseDuration(in.Duration); err != nil || d <= 0 {
				response.BadRequest(c, "duration", "duration must be a positive duration such as 30m or 2h")
				return
			}
		}
		reply[app.UserDTO](c, e, app.LockUserCommand{ID: c.Param("id"), Reason: in.Reason, Duration: d})
	}
}

func UnlockUser(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.UserDTO](c, e, app.UnlockUserCommand{ID: c.Param("id")})
	}
}

func ChangeUserAccount(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			AccountID string `json:"accountId" binding:"required"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.UserDTO](c, e, app.ChangeUserAccountCommand{ID: c.Param("id"), AccountID: in.AccountID})
	}
}

func DeleteUser(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		replyDone(c, e, app.DeleteUserCommand{ID: c.Param("id")})
	}
}
