package app

import (
	"context"

	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

type CreateAccountCommand struct {
	Name             string
	Type             string
	OwnerUserID      string
	SubscriptionTier string
}

type UpdateAccountCommand struct {
	ID   string
	Name string
	Type string
}

type ChangeSubscriptionCommand struct {
	ID   string
	Tier string
}

type SuspendAccountCommand struct {
	ID     string
	Reason string
}

type ReactivateAccountCommand struct{ ID string }

type DeleteAccountCommand struct{ ID string }

type GetAccountQuery struct{ ID string }

type ListAccountsQuery struct {
	PageQuery
	Status string
	Type   string
}

func (h *handlers) registerAccounts(m *mediator.Mediator) {
	handle(m, h.createAccount)
	handle(m, func(ctx context.Context, c UpdateAccountCommand) (*AccountDTO, error) {
		return mutate(ctx, h.r.Accounts, c.ID, func(a *models.Account) error {
			return a.Update(c.Name, models.AccountType(c.Type), actor(ctx))
		}, toAccountDTO)
	})
	handle(m, func(ctx context.Context, c ChangeSubscriptionCommand) (*AccountDTO, error) {
		return mutate(ctx, h.r.Accounts, c.ID, func(a *models.Account) error {
			return a.ChangeSubscription(c.Tier, actor(ctx))
		}, toAccountDTO)
	})
	handle(m, func(ctx context.Context, c SuspendAccountCommand) (*AccountDTO, error) {
		return mutate(ctx, h.r.Accounts, c.ID, func(a *models.Account) error {
			return a.Suspend(c.Reason, actor(ctx))
		}, toAccountDTO)
	})
	handle(m, func(ctx context.Context, c ReactivateAccountCommand) (*AccountDTO, error) {
		return mutate(ctx, h.r.Accounts, c.ID, func(a *models.Account) error {
			return a.Reactivate(actor(ctx))
		}, toAccountDTO)
	})
	handle(m, func(ctx context.Context, c DeleteAccountCommand) (bool, error) {
		dto, err := mutate(ctx, h.r.Accounts, c.ID, func(a *models.Account) error {
			return a.Delete(actor(ctx))
		}, toAccountDTO)
		return dto != nil, err
	})
	handle(m, func(ctx context.Context, q GetAccountQuery) (*AccountDTO, error) {
		return get(ctx, h.r.Accounts, q.ID, toAccountDTO)
	})
	handle(m, func(ctx context.Context, q ListAccountsQuery) (*PageResult[AccountDTO], error) {
		return listPage(ctx, h.r.Accounts.List, q.PageQuery, toAccountDTO,
			repos.Eq("status", q.Status),
			repos.Eq("type", q.Type),
			repos.Search(q.Search, "name", "subscription_tier"),
		)
	})
}

func (h *handlers) createAccount(ctx context.Context, c CreateAccountCommand) (*AccountDTO, error) {
	acc, err := models.NewAccount(h.NewID(), c.Name, models.AccountType(c.Type), c.OwnerUserID, c.SubscriptionTier)
	if err != nil {
		return nil, err
	}
	if err := h.r.Accounts.Add(ctx, acc); err != nil {
		return nil, err
	}
	dto := toAccountDTO(acc)
	return &dto, nil
}
