package mapping

import "github.com/PratikDhanave/braze-track-service/internal/value"

// ResolveIdentifiers collects the user identifiers for one invocation.
//
// Email comes from the top-level field, then user_data.email_address, then
// user_data.email. Phone comes from the top-level field, then
// user_data.phone_number. A user alias is added when enabled and both of its
// parts are set. Configured identifier pairs are applied last and overwrite
// anything resolved before them.
func ResolveIdentifiers(mc Context) Identifiers {
	ids := Identifiers{}
	ev := mc.Event
	userData := ev.Object("user_data")

	switch {
	case value.Truthy(ev["email"]):
		ids[KeyEmail] = ev["email"]
	case value.Truthy(userData["email_address"]):
		ids[KeyEmail] = userData["email_address"]
	case value.Truthy(userData["email"]):
		ids[KeyEmail] = userData["email"]
	}

	switch {
	case value.Truthy(ev["phone"]):
		ids[KeyPhone] = ev["phone"]
	case value.Truthy(userData["phone_number"]):
		ids[KeyPhone] = userData["phone_number"]
	}

	tag := mc.Tag
	if tag.AddUserAlias && value.IsValid(tag.UserAliasLabel) && value.IsValid(tag.UserAliasName) {
		ids[KeyUserAlias] = UserAlias{
			AliasLabel: tag.UserAliasLabel,
			AliasName:  tag.UserAliasName,
		}
		ids[KeyUpdateExistingOnly] = tag.UpdateExistingUsersOnly
	}

	for _, p := range tag.UserIdentifiers {
		ids[p.Name] = p.Value
	}

	return ids
}
