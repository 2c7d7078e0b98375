package handlers

import (
	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

func ListAccounts(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.AccountDTO]](c, e, app.ListAccountsQuery{
			PageQuery: pageQuery(c),
			Status:    c.Query("status"),
			Type:      c.Query("type"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

func CreateAccount(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name             string `json:"name"`
			Type             string `json:"type"`
			OwnerUserID      string `json:"ownerUserId"`
			SubscriptionTier string `json:"subscriptionTier"`
		}
		if !bind(c, &in) {
			return
		}
		acc, ok := send[*app.AccountDTO](c, e, app.CreateAccountCommand{
			Name:             in.Name,
			Type:             in.Type,
			OwnerUserID:      in.OwnerUserID,
			SubscriptionTier: in.SubscriptionTier,
		})
		if ok {
			response.Created(c, location("/api/accounts", acc.ID), acc)
		}
	}
}

func GetAccount(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.AccountDTO](c, e, app.GetAccountQuery{ID: c.Param("id")})
	}
}

func UpdateAccount(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.AccountDTO](c, e, app.UpdateAccountCommand{ID: c.Param("id"), Name: in.Name, Type: in.Type})
	}
}

func ChangeSubscription(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Tier string `json:"subscriptionTier"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.AccountDTO](c, e, app.ChangeSubscriptionCommand{ID: c.Param("id"), Tier: in.Tier})
	}
}

func SuspendAccount(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Reason string `json:"reason"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.AccountDTO](c, e, app.SuspendAccountCommand{ID: c.Param("id"), Reason: in.Reason})
	}
}

func ReactivateAccount(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.AccountDTO](c, e, app.ReactivateAccountCommand{ID: c.Param("id")})
	}
}

func DeleteAccount(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		replyDone(c, e, app.DeleteAccountCommand{ID: c.Param("id")})
	}
}
