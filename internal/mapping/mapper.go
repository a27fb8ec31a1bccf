// Package mapping turns a raw tag-manager event into a Braze /users/track
// payload.
package mapping

import (
	"github.com/PratikDhanave/braze-track-service/internal/calendar"
	"github.com/PratikDhanave/braze-track-service/internal/config"
	"github.com/PratikDhanave/braze-track-service/internal/value"
)

// Context is the immutable input of one mapping run.
type Context struct {
	Event RawEvent
	Tag   config.Tag
	// NowMillis is the invocation time in milliseconds since the epoch.
	NowMillis int64
}

// commonEventFields are copied into properties when common event data is
// enabled.
var commonEventFields = []string{
	"page_location",
	"page_title",
	"page_referrer",
	"page_hostname",
	"page_encoding",
	"screen_resolution",
	"user_agent",
	"language",
}

// Map builds the complete payload for one invocation.
func Map(mc Context) Payload {
	entry := BuildEntry(mc)
	ids := ResolveIdentifiers(mc)
	AttachIdentifiers(entry, ids)

	return Payload{
		AppID:      mc.Tag.AppID,
		Entry:      entry,
		Attributes: []Attributes{BuildAttributes(mc.Tag.UserCustomData, ids)},
	}
}

// BuildEntry builds the event or purchase record, without identifiers.
func BuildEntry(mc Context) Entry {
	tag := mc.Tag

	b := Base{
		Time:       tag.EventTimestamp,
		Properties: map[string]any{},
	}
	if b.Time == "" {
		b.Time = calendar.FormatMillis(mc.NowMillis)
	}

	if tag.IncludeCommonEventData {
		for _, field := range commonEventFields {
			if v := mc.Event[field]; value.IsValid(v) {
				b.Properties[field] = v
			}
		}
	}

	var entry Entry
	if tag.IsPurchase() {
		entry = buildPurchase(mc, b)
	} else {
		entry = &Event{Base: b, Name: tag.EventNameCustom}
	}

	props := entry.base().Properties
	for _, p := range tag.EventCustomData {
		props[p.Name] = p.Value
	}

	return entry
}

func buildPurchase(mc Context, b Base) *Purchase {
	tag := mc.Tag
	price, _ := value.Number(tag.PurchasePrice)

	p := &Purchase{
		Base:      b,
		ProductID: tag.PurchaseProductID,
		Currency:  tag.PurchaseCurrency,
		Price:     price,
	}

	if tag.PurchaseTransactionID != "" {
		p.Properties["transaction_id"] = tag.PurchaseTransactionID
	}

	if len(tag.PurchaseProducts) > 0 {
		p.Properties["products"] = tag.PurchaseProducts
	} else if items, ok := mc.Event["items"].([]any); ok && len(items) > 0 && value.Truthy(items[0]) {
		p.Properties["products"] = productLines(items)
	}

	return p
}

// productLines maps raw items to product lines. Entries that are not objects
// are skipped.
func productLines(items []any) []ProductLine {
	lines := make([]ProductLine, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		var line ProductLine
		if v := item["item_id"]; value.Truthy(v) {
			line.ProductID = value.String(v)
		}
		if v := item["quantity"]; value.Truthy(v) {
			if n, ok := value.Integer(v); ok {
				line.Quantity = &n
			}
		}
		if v := item["item_category"]; value.Truthy(v) {
			line.Category = v
		}
		if v := item["product_group"]; value.Truthy(v) {
			line.ProductGroup = v
		}
		if v := item["price"]; value.Truthy(v) {
			line.Price = value.String(v)
		}
		lines = append(lines, line)
	}
	return lines
}

// AttachIdentifiers sets the identifier set on the record. A nil entry is
// left alone.
func AttachIdentifiers(entry Entry, ids Identifiers) {
	if entry == nil {
		return
	}
	entry.base().Identifiers = ids
}

// BuildAttributes overlays the configured user attributes with the
// identifiers; identifiers win on collision.
func BuildAttributes(custom []config.Pair, ids Identifiers) Attributes {
	attrs := Attributes{}
	for _, p := range custom {
		attrs[p.Name] = p.Value
	}
	for k, v := range ids {
		attrs[k] = v
	}
	return attrs
}
