package mapping

import "encoding/json"

// RawEvent is the event object handed over by the tag-management runtime.
type RawEvent map[string]any

// Object returns the nested object stored under key, or nil.
func (e RawEvent) Object(key string) map[string]any {
	obj, _ := e[key].(map[string]any)
	return obj
}

// Identifiers is the set of user identifiers attached to every record.
// Besides the well-known keys it may carry any caller-supplied identifier.
type Identifiers map[string]any

// Identifier keys recognized by Braze.
const (
	KeyEmail              = "email"
	KeyPhone              = "phone"
	KeyBrazeID            = "braze_id"
	KeyExternalID         = "external_id"
	KeyUserAlias          = "user_alias"
	KeyUpdateExistingOnly = "_update_existing_only"
)

// UserAlias identifies a user by an alias label and name.
type UserAlias struct {
	AliasLabel string `json:"alias_label"`
	AliasName  string `json:"alias_name"`
}

// Base holds the fields shared by events and purchases.
type Base struct {
	Time        string
	Properties  map[string]any
	Identifiers Identifiers
}

func (b *Base) base() *Base { return b }

// Entry is the single event or purchase record of a payload. Its concrete
// type decides whether the payload carries "events" or "purchases".
type Entry interface {
	base() *Base
}

// Event is a custom event record.
type Event struct {
	Base
	Name string
}

// Purchase is a purchase record logged at order level.
type Purchase struct {
	Base
	ProductID string
	Currency  string
	Price     float64
}

// ProductLine is one purchased item listed under properties.products.
// Quantity is nil when the item has none; a fractional quantity below one
// truncates to a present zero.
type ProductLine struct {
	ProductID    string `json:"product_id,omitempty"`
	Quantity     *int64 `json:"quantity,omitempty"`
	Category     any    `json:"category,omitempty"`
	ProductGroup any    `json:"product_group,omitempty"`
	Price        string `json:"price,omitempty"`
}

// Attributes is the user-attributes record.
type Attributes map[string]any

// Payload is the body of a /users/track request.
type Payload struct {
	AppID      string
	Entry      Entry
	Attributes []Attributes
}

// Events returns the custom event records, nil for a purchase payload.
func (p Payload) Events() []*Event {
	if e, ok := p.Entry.(*Event); ok {
		return []*Event{e}
	}
	return nil
}

// Purchases returns the purchase records, nil for a custom event payload.
func (p Payload) Purchases() []*Purchase {
	if e, ok := p.Entry.(*Purchase); ok {
		return []*Purchase{e}
	}
	return nil
}

// MarshalJSON writes the request body with exactly one of "events" or
// "purchases", and app_id only when set.
func (p Payload) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"attributes": p.Attributes,
	}
	if p.AppID != "" {
		out["app_id"] = p.AppID
	}
	if events := p.Events(); events != nil {
		out["events"] = events
	}
	if purchases := p.Purchases(); purchases != nil {
		out["purchases"] = purchases
	}
	return json.Marshal(out)
}

// MarshalJSON flattens the identifiers into the event object.
func (e *Event) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"time":       e.Time,
		"name":       e.Name,
		"properties": e.Properties,
	}
	return json.Marshal(withIdentifiers(m, e.Identifiers))
}

// MarshalJSON flattens the identifiers into the purchase object.
func (p *Purchase) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"time":       p.Time,
		"product_id": p.ProductID,
		"currency":   p.Currency,
		"price":      p.Price,
		"properties": p.Properties,
	}
	return json.Marshal(withIdentifiers(m, p.Identifiers))
}

// withIdentifiers overlays the identifiers on the record fields; identifiers
// win on collision.
func withIdentifiers(m map[string]any, ids Identifiers) map[string]any {
	for k, v := range ids {
		m[k] = v
	}
	return m
}
