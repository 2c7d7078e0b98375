package models

import (
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type LayoutType string

const (
	LayoutGrid     LayoutType = "Grid"
	LayoutFreeform LayoutType = "Freeform"
	LayoutList     LayoutType = "List"
)

func (l LayoutType) Valid() bool {
	switch l {
	case LayoutGrid, LayoutFreeform, LayoutList:
		return true
	}
	return false
}

type SharePermission string

const (
	ShareView  SharePermission = "View"
	ShareEdit  SharePermission = "Edit"
	ShareAdmin SharePermission = "Admin"
)

func (p SharePermission) Valid() bool {
	switch p {
	case ShareView, ShareEdit, ShareAdmin:
		return true
	}
	return false
}

type Dashboard struct {
	eventLog

	ID          string     `gorm:"primaryKey;size:36"`
	Name        string     `gorm:"size:200;not null"`
	Description string     `gorm:"size:1000"`
	ProfileID   string     `gorm:"size:36;index"`
	AccountID   string     `gorm:"size:36;index;not null"`
	OwnerID     string     `gorm:"size:36;index;not null"`
	LayoutType  LayoutType `gorm:"size:16;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Cards  []DashboardCard  `gorm:"foreignKey:DashboardID;constraint:OnDelete:CASCADE"`
	Shares []DashboardShare `gorm:"foreignKey:DashboardID;constraint:OnDelete:CASCADE"`
}

type DashboardCard struct {
	ID          string         `gorm:"primaryKey;size:36"`
	DashboardID string         `gorm:"size:36;index;not null"`
	Title       string         `gorm:"size:200;not null"`
	Type        string         `gorm:"size:50;not null"`
	PositionX   int            `gorm:"not null"`
	PositionY   int            `gorm:"not null"`
	Width       int            `gorm:"not null"`
	Height      int            `gorm:"not null"`
	Config      datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DashboardShare struct {
	ID          string          `gorm:"primaryKey;size:36"`
	DashboardID string          `gorm:"size:36;uniqueIndex:idx_dashboard_share_user;not null"`
	UserID      string          `gorm:"size:36;uniqueIndex:idx_dashboard_share_user;not null"`
	Permission  SharePermission `gorm:"size:10;not null"`
	SharedBy    string          `gorm:"size:36;not null"`
	SharedAt    time.Time
}

// CardSpec is the caller-supplied shape of a card.
type CardSpec struct {
	Title     string
	Type      string
	PositionX int
	PositionY int
	Width     int
	Height    int
	Config    datatypes.JSON
}

func (s CardSpec) validate() error {
	if err := requiredAll("title", s.Title, "cardType", s.Type); err != nil {
		return err
	}
	if err := maxLen("title", s.Title, 200); err != nil {
		return err
	}
	if s.PositionX < 0 || s.PositionY < 0 {
		return argErr("position", "must not be negative")
	}
	if s.Width < 1 || s.Height < 1 {
		return argErr("size", "width and height must be at least 1")
	}
	return nil
}

func (d *Dashboard) AggregateID() string { return d.ID }
func (d *Dashboard) TenantID() string    { return d.AccountID }

func NewDashboard(id, name, description, profileID, accountID, ownerID string, layout LayoutType) (*Dashboard, error) {
	if err := requiredAll("id", id, "name", name, "accountId", accountID, "ownerId", ownerID); err != nil {
		return nil, err
	}
	if err := maxLen("name", name, 200); err != nil {
		return nil, err
	}
	if layout == "" {
		layout = LayoutGrid
	}
	if !layout.Valid() {
		return nil, argErr("layoutType", "unknown layout type")
	}
	ts := now()
	d := &Dashboard{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: description,
		ProfileID:   profileID,
		AccountID:   accountID,
		OwnerID:     ownerID,
		LayoutType:  layout,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	d.raise(DashboardCreatedEvent{EventBase: newEventBase(id, ownerID, ts), Name: d.Name, AccountID: accountID})
	return d, nil
}

func (d *Dashboard) Update(name, description string, layout LayoutType, by string) error {
	if err := required("name", name); err != nil {
		return err
	}
	if err := maxLen("name", name, 200); err != nil {
		return err
	}
	if !layout.Valid() {
		return argErr("layoutType", "unknown layout type")
	}
	d.Name = strings.TrimSpace(name)
	d.Description = description
	d.LayoutType = layout
	d.UpdatedAt = now()
	d.raise(DashboardUpdatedEvent{EventBase: newEventBase(d.ID, by, d.UpdatedAt), Name: d.Name, LayoutType: layout})
	return nil
}

func (d *Dashboard) cardIndex(cardID string) int {
	return slices.IndexFunc(d.Cards, func(c DashboardCard) bool { return c.ID == cardID })
}

func (d *Dashboard) AddCard(cardID string, spec CardSpec, by string) error {
	if err := required("cardId", cardID); err != nil {
		return err
	}
	if err := spec.validate(); err != nil {
		return err
	}
	if d.cardIndex(cardID) >= 0 {
		return invalidOpMsg("add card", "card already exists")
	}
	ts := now()
	d.Cards = append(d.Cards, DashboardCard{
		ID:          cardID,
		DashboardID: d.ID,
		Title:       strings.TrimSpace(spec.Title),
		Type:        spec.Type,
		PositionX:   spec.PositionX,
		PositionY:   spec.PositionY,
		Width:       spec.Width,
		Height:      spec.Height,
		Config:      spec.Config,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	d.UpdatedAt = ts
	d.raise(DashboardCardAddedEvent{EventBase: newEventBase(d.ID, by, ts), CardID: cardID, Title: spec.Title})
	return nil
}

func (d *Dashboard) UpdateCard(cardID string, spec CardSpec, by string) error {
	if err := required("cardId", cardID); err != nil {
		return err
	}
	if err := spec.validate(); err != nil {
		return err
	}
	i := d.cardIndex(cardID)
	if i < 0 {
		return invalidOpMsg("update card", "card not found on dashboard")
	}
	ts := now()
	c := &d.Cards[i]
	c.Title = strings.TrimSpace(spec.Title)
	c.Type = spec.Type
	c.PositionX, c.PositionY = spec.PositionX, spec.PositionY
	c.Width, c.Height = spec.Width, spec.Height
	c.Config = spec.Config
	c.UpdatedAt = ts
	d.UpdatedAt = ts
	d.raise(DashboardCardUpdatedEvent{EventBase: newEventBase(d.ID, by, ts), CardID: cardID})
	return nil
}

func (d *Dashboard) RemoveCard(cardID, by string) error {
	if err := required("cardId", cardID); err != nil {
		return err
	}
	i := d.cardIndex(cardID)
	if i < 0 {
		return invalidOpMsg("remove card", "card not found on dashboard")
	}
	d.Cards = slices.Delete(d.Cards, i, i+1)
	d.UpdatedAt = now()
	d.raise(DashboardCardRemovedEvent{EventBase: newEventBase(d.ID, by, d.UpdatedAt), CardID: cardID})
	return nil
}

func (d *Dashboard) shareIndex(userID string) int {
	return slices.IndexFunc(d.Shares, func(s DashboardShare) bool { return s.UserID == userID })
}

// Share grants userID access. Sharing again with the same user replaces the permission.
func (d *Dashboard) Share(shareID, userID string, permission SharePermission, by string) error {
	if err := requiredAll("shareId", shareID, "userId", userID, "sharedBy", by); err != nil {
		return err
	}
	if !permission.Valid() {
		return argErr("permission", "must be View, Edit or Admin")
	}
	if userID == d.OwnerID {
		return invalidOpMsg("share dashboard", "dashboard owner already has full access")
	}
	ts := now()
	if i := d.shareIndex(userID); i >= 0 {
		d.Shares[i].Permission = permission
		d.Shares[i].SharedBy = by
		d.Shares[i].SharedAt = ts
	} else {
		d.Shares = append(d.Shares, DashboardShare{
			ID:          shareID,
			DashboardID: d.ID,
			UserID:      userID,
			Permission:  permission,
			SharedBy:    by,
			SharedAt:    ts,
		})
	}
	d.UpdatedAt = ts
	d.raise(DashboardSharedEvent{EventBase: newEventBase(d.ID, by, ts), UserID: userID, Permission: permission})
	return nil
}

func (d *Dashboard) Unshare(userID, by string) error {
	if err := required("userId", userID); err != nil {
		return err
	}
	i := d.shareIndex(userID)
	if i < 0 {
		return invalidOpMsg("unshare dashboard", "dashboard is not shared with this user")
	}
	d.Shares = slices.Delete(d.Shares, i, i+1)
	d.UpdatedAt = now()
	d.raise(DashboardUnsharedEvent{EventBase: newEventBase(d.ID, by, d.UpdatedAt), UserID: userID})
	return nil
}

// SharedWith returns the permission granted to userID, if any.
func (d *Dashboard) SharedWith(userID string) (SharePermission, bool) {
	if i := d.shareIndex(userID); i >= 0 {
		return d.Shares[i].Permission, true
	}
	return "", false
}

func (d *Dashboard) MarkDeleted(by string) error {
	if err := required("deletedBy", by); err != nil {
		return err
	}
	d.raise(DashboardDeletedEvent{EventBase: newEventBase(d.ID, by, now()), Name: d.Name})
	return nil
}

type DashboardCreatedEvent struct {
	EventBase
	Name      string `json:"name"`
	AccountID string `json:"accountId"`
}

func (DashboardCreatedEvent) EventName() string { return "dashboard.created" }

type DashboardUpdatedEvent struct {
	EventBase
	Name       string     `json:"name"`
	LayoutType LayoutType `json:"layoutType"`
}

func (DashboardUpdatedEvent) EventName() string { return "dashboard.updated" }

type DashboardCardAddedEvent struct {
	EventBase
	CardID string `json:"cardId"`
	Title  string `json:"title"`
}

func (DashboardCardAddedEvent) EventName() string { return "dashboard.card_added" }

type DashboardCardUpdatedEvent struct {
	EventBase
	CardID string `json:"cardId"`
}

func (DashboardCardUpdatedEvent) EventName() string { return "dashboard.card_updated" }

type DashboardCardRemovedEvent struct {
	EventBase
	CardID string `json:"cardId"`
}

func (DashboardCardRemovedEvent) EventName() string { return "dashboard.card_removed" }

type DashboardSharedEvent struct {
	EventBase
	UserID     string          `json:"userId"`
	Permission SharePermission `json:"permission"`
}

func (DashboardSharedEvent) EventName() string { return "dashboard.shared" }

type DashboardUnsharedEvent struct {
	EventBase
	UserID string `json:"userId"`
}

func (DashboardUnsharedEvent) EventName() string { return "dashboard.unshared" }

type DashboardDeletedEvent struct {
	EventBase
	Name string `json:"name"`
}

func (DashboardDeletedEvent) EventName() string { return "dashboard.deleted" }
