package mapping

import (
	"errors"

	"github.com/PratikDhanave/braze-track-service/internal/value"
)

// ErrMissingIdentifiers is returned when a record carries none of the
// identifiers Braze can resolve a user by.
var ErrMissingIdentifiers = errors.New(`one or more fields are missing: "external_id" or "user_alias" or "braze_id" or "email" or "phone"`)

// CheckIdentifiers fails when email, phone, braze_id and external_id are all
// missing and there is no complete user alias.
func CheckIdentifiers(entry Entry) error {
	if entry == nil {
		return ErrMissingIdentifiers
	}
	ids := entry.base().Identifiers

	for _, key := range []string{KeyEmail, KeyPhone, KeyBrazeID, KeyExternalID} {
		if value.IsValid(ids[key]) {
			return nil
		}
	}
	if aliasComplete(ids[KeyUserAlias]) {
		return nil
	}
	return ErrMissingIdentifiers
}

// aliasComplete accepts the resolver's alias as well as an alias object
// supplied through the identifier list.
func aliasComplete(v any) bool {
	switch a := v.(type) {
	case UserAlias:
		return value.IsValid(a.AliasLabel) && value.IsValid(a.AliasName)
	case *UserAlias:
		return a != nil && value.IsValid(a.AliasLabel) && value.IsValid(a.AliasName)
	case map[string]any:
		return value.IsValid(a["alias_label"]) && value.IsValid(a["alias_name"])
	}
	return false
}
