// Package models defines the core domain types of the letting store.
//
// All timestamps are integer milliseconds since the Unix epoch, matching the
// on-disk data.json format. Identifiers are opaque strings: new ones are
// generated from time-sortable ksid values, but any non-empty string imported
// from a backup is accepted as-is.
package models

import (
	"time"

	"github.com/maruel/ksid"
)

// SchemaVersion is the current version of the data.json format.
const SchemaVersion = "1.0.0"

// ID is an opaque entity identifier, unique within its collection.
type ID string

// NewID generates a new time-sortable identifier.
func NewID() ID {
	return ID(ksid.NewID().String())
}

// IsZero returns true if the ID is unset.
func (id ID) IsZero() bool {
	return id == ""
}

// NowMillis returns the current time in milliseconds since the Unix epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// PropertyType classifies a property.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeCondo      PropertyType = "condo"
	PropertyTypeTownhouse  PropertyType = "townhouse"
	PropertyTypeCommercial PropertyType = "commercial"
)

// Property represents a managed rental property.
type Property struct {
	ID              ID           `json:"id"`
	Name            string       `json:"name"`
	Address         string       `json:"address"`
	PropertyType    PropertyType `json:"propertyType,omitempty"`
	LandlordName    string       `json:"landlordName,omitempty"`
	LandlordContact string       `json:"landlordContact,omitempty"`
	TenantName      string       `json:"tenantName,omitempty"`
	TenantContact   string       `json:"tenantContact,omitempty"`
	Featured        bool         `json:"featured,omitempty"`
	RentalAmount    float64      `json:"rentalAmount,omitempty"`
	LeaseEndDate    int64        `json:"leaseEndDate,omitempty"`
	CreatedAt       int64        `json:"createdAt"`
	UpdatedAt       int64        `json:"updatedAt"`
}

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	BillStatusPending  BillStatus = "pending"
	BillStatusPaid     BillStatus = "paid"
	BillStatusOverdue  BillStatus = "overdue"
	BillStatusDisputed BillStatus = "disputed"
)

// Bill represents a utility or service bill attached to a property.
//
// UtilityType is free-form text: historically an enum (electricity, gas,
// water, internet, councilTax, tv, other, gasAndElectricity) but stored as
// plain text, so imported values are never rejected.
type Bill struct {
	ID            ID         `json:"id"`
	PropertyID    ID         `json:"propertyId"`
	UtilityType   string     `json:"utilityType"`
	Provider      string     `json:"provider"`
	AccountNumber string     `json:"accountNumber,omitempty"`
	Amount        float64    `json:"amount"`
	IssueDate     int64      `json:"issueDate"`
	DueDate       int64      `json:"dueDate"`
	Status        BillStatus `json:"status"`
	Paid          bool       `json:"paid"`
	PaidDate      int64      `json:"paidDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	// LocalDocKeys references attachments in the document store.
	LocalDocKeys []string `json:"localDocKeys,omitempty"`
	// LocalDocKey is the deprecated singular form, kept read-compatible for
	// records written before multi-attachment support.
	LocalDocKey string `json:"localDocKey,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// DocKeys returns the de-duplicated union of LocalDocKeys and the legacy
// LocalDocKey, preserving order.
func (b *Bill) DocKeys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, k := range b.LocalDocKeys {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	if b.LocalDocKey != "" && !seen[b.LocalDocKey] {
		keys = append(keys, b.LocalDocKey)
	}
	return keys
}

// Priority is the urgency of a chaser.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Chaser is a reminder, optionally linked to a property or a bill.
type Chaser struct {
	ID            ID       `json:"id"`
	PropertyID    ID       `json:"propertyId,omitempty"`
	BillID        ID       `json:"billId,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	DueDate       int64    `json:"dueDate"`
	Priority      Priority `json:"priority"`
	Completed     bool     `json:"completed"`
	CompletedDate int64    `json:"completedDate,omitempty"`
	CreatedAt     int64    `json:"createdAt"`
	UpdatedAt     int64    `json:"updatedAt"`
}

// Note is a free-form note attached to a property and optionally a bill.
type Note struct {
	ID         ID       `json:"id"`
	PropertyID ID       `json:"propertyId,omitempty"`
	BillID     ID       `json:"billId,omitempty"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Completed  bool     `json:"completed,omitempty"`
	Priority   Priority `json:"priority,omitempty"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  int64    `json:"updatedAt"`
}

// ActivityType identifies which entity kind an activity refers to.
type ActivityType string

const (
	ActivityTypeProperty ActivityType = "property"
	ActivityTypeBill     ActivityType = "bill"
	ActivityTypeChaser   ActivityType = "chaser"
	ActivityTypeNote     ActivityType = "note"
)

// ActivityAction identifies what happened to the entity.
type ActivityAction string

const (
	ActivityCreated   ActivityAction = "created"
	ActivityUpdated   ActivityAction = "updated"
	ActivityDeleted   ActivityAction = "deleted"
	ActivityCompleted ActivityAction = "completed"
)

// Activity is one entry of the bounded mutation feed. ItemTitle is a
// denormalized snapshot taken at mutation time; it is never updated when the
// underlying entity changes.
type Activity struct {
	ID        ID             `json:"id"`
	Type      ActivityType   `json:"type"`
	Action    ActivityAction `json:"action"`
	ItemID    ID             `json:"itemId"`
	ItemTitle string         `json:"itemTitle"`
	Timestamp int64          `json:"timestamp"`
}

// AppSettings holds user preferences stored alongside the collections.
type AppSettings struct {
	NotificationDaysBefore int    `json:"notificationDaysBefore"`
	Currency               string `json:"currency"`
	DateFormat             string `json:"dateFormat"`
	EmailParsingEnabled    bool   `json:"emailParsingEnabled"`
}

// DefaultSettings returns the settings used when no stored record exists.
func DefaultSettings() AppSettings {
	return AppSettings{
		NotificationDaysBefore: 7,
		Currency:               "GBP",
		DateFormat:             "dd/MM/yyyy",
	}
}

// AppData is the primary store record: five collections plus settings and a
// schema version, persisted as a single JSON document.
type AppData struct {
	Properties []Property  `json:"properties"`
	Bills      []Bill      `json:"bills"`
	Chasers    []Chaser    `json:"chasers"`
	Notes      []Note      `json:"notes"`
	Activities []Activity  `json:"activities"`
	Settings   AppSettings `json:"settings"`
	Version    string      `json:"version"`
}

// DefaultAppData returns an empty record with default settings and the
// current schema version.
func DefaultAppData() *AppData {
	return &AppData{
		Properties: []Property{},
		Bills:      []Bill{},
		Chasers:    []Chaser{},
		Notes:      []Note{},
		Activities: []Activity{},
		Settings:   DefaultSettings(),
		Version:    SchemaVersion,
	}
}

// Clone returns a deep copy of the AppData.
func (d *AppData) Clone() *AppData {
	c := *d
	c.Properties = make([]Property, len(d.Properties))
	copy(c.Properties, d.Properties)
	c.Bills = make([]Bill, len(d.Bills))
	for i := range d.Bills {
		c.Bills[i] = d.Bills[i]
		if d.Bills[i].LocalDocKeys != nil {
			c.Bills[i].LocalDocKeys = make([]string, len(d.Bills[i].LocalDocKeys))
			copy(c.Bills[i].LocalDocKeys, d.Bills[i].LocalDocKeys)
		}
	}
	c.Chasers = make([]Chaser, len(d.Chasers))
	copy(c.Chasers, d.Chasers)
	c.Notes = make([]Note, len(d.Notes))
	copy(c.Notes, d.Notes)
	c.Activities = make([]Activity, len(d.Activities))
	copy(c.Activities, d.Activities)
	return &c
}
