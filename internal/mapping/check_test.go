package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func eventWith(ids Identifiers) Entry {
	return &Event{Base: Base{Identifiers: ids}}
}

func TestCheckIdentifiers(t *testing.T) {
	pass := map[string]Identifiers{
		"email":          {KeyEmail: "a@b.c"},
		"phone":          {KeyPhone: "+1"},
		"braze id":       {KeyBrazeID: "b1"},
		"external id":    {KeyExternalID: 0},
		"alias struct":   {KeyUserAlias: UserAlias{AliasLabel: "l", AliasName: "n"}},
		"alias pointer":  {KeyUserAlias: &UserAlias{AliasLabel: "l", AliasName: "n"}},
		"alias from map": {KeyUserAlias: map[string]any{"alias_label": "l", "alias_name": "n"}},
	}
	for name, ids := range pass {
		assert.NoError(t, CheckIdentifiers(eventWith(ids)), name)
	}

	fail := map[string]Identifiers{
		"empty":            {},
		"empty strings":    {KeyEmail: "", KeyPhone: "", KeyExternalID: nil},
		"half alias":       {KeyUserAlias: UserAlias{AliasLabel: "l"}},
		"half alias map":   {KeyUserAlias: map[string]any{"alias_name": "n"}},
		"alias as string":  {KeyUserAlias: "l:n"},
		"nil alias":        {KeyUserAlias: (*UserAlias)(nil)},
		"only custom keys": {"loyalty_id": "x", KeyUpdateExistingOnly: true},
	}
	for name, ids := range fail {
		assert.ErrorIs(t, CheckIdentifiers(eventWith(ids)), ErrMissingIdentifiers, name)
	}
}

func TestCheckIdentifiersOnPurchase(t *testing.T) {
	p := &Purchase{Base: Base{Identifiers: Identifiers{KeyPhone: "+1"}}}
	assert.NoError(t, CheckIdentifiers(p))
}

func TestCheckIdentifiersNilEntry(t *testing.T) {
	assert.ErrorIs(t, CheckIdentifiers(nil), ErrMissingIdentifiers)
}
