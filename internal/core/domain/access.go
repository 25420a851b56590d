package domain

// Action is a permission-gated operation an actor can attempt.
type Action string

const (
	ActionViewOwnProfile  Action = "view-own-profile"
	ActionViewAllAccounts Action = "view-all-accounts"
	ActionCreateAccount   Action = "create-account"
	ActionEditAnyAccount  Action = "edit-any-account"
	ActionDeleteAccount   Action = "delete-account"
	ActionEditOwnProfile  Action = "edit-own-profile"
)

// policy is the single source of truth for role permissions. The API
// middleware enforces it; any client-side gating only mirrors it.
var policy = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionViewOwnProfile:  true,
		ActionViewAllAccounts: true,
		ActionCreateAccount:   true,
		ActionEditAnyAccount:  true,
		ActionDeleteAccount:   true,
		ActionEditOwnProfile:  true,
	},
	RoleManager: {
		ActionViewOwnProfile:  true,
		ActionViewAllAccounts: true,
		ActionEditOwnProfile:  true,
	},
	RoleUser: {
		ActionViewOwnProfile: true,
		ActionEditOwnProfile: true,
	},
	RoleAnonymous: {},
}

// Allowed reports whether role may perform action. Unknown roles and
// unknown actions are denied.
func Allowed(role Role, action Action) bool {
	return policy[role][action]
}
