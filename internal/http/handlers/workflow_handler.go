package handlers

import (
	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

func ListWorkflows(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.WorkflowDTO]](c, e, app.ListWorkflowsQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
			Status:    c.Query("status"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

func CreateWorkflow(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			AccountID   string `json:"accountId"`
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if !bind(c, &in) {
			return
		}
		w, ok := send[*app.WorkflowDTO](c, e, app.CreateWorkflowCommand{
			AccountID: accountScope(c, in.AccountID), Name: in.Name, Description: in.Description,
		})
		if ok {
			response.Created(c, location("/api/workflows", w.ID), w)
		}
	}
}

func GetWorkflow(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WorkflowDTO](c, e, app.GetWorkflowQuery{ID: c.Param("id")})
	}
}

func UpdateWorkflow(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.WorkflowDTO](c, e, app.UpdateWorkflowCommand{ID: c.Param("id"), Name: in.Name, Description: in.Description})
	}
}

func AddWorkflowStage(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name           string `json:"name"`
			ApproverRoleID string `json:"approverRoleId"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.WorkflowDTO](c, e, app.AddWorkflowStageCommand{
			WorkflowID: c.Param("id"), Name: in.Name, ApproverRoleID: in.ApproverRoleID,
		})
	}
}

func RemoveWorkflowStage(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WorkflowDTO](c, e, app.RemoveWorkflowStageCommand{WorkflowID: c.Param("id"), StageID: c.Param("stageId")})
	}
}

func ActivateWorkflow(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WorkflowDTO](c, e, app.ActivateWorkflowCommand{ID: c.Param("id")})
	}
}

func DeactivateWorkflow(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WorkflowDTO](c, e, app.DeactivateWorkflowCommand{ID: c.Param("id")})
	}
}

func ArchiveWorkflow(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WorkflowDTO](c, e, app.ArchiveWorkflowCommand{ID: c.Param("id")})
	}
}

func DeleteWorkflow(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		replyDone(c, e, app.DeleteWorkflowCommand{ID: c.Param("id")})
	}
}
