package service

import "storeit/internal/model"

// Actions a user can request on a file.
const (
	ActionRename   = "rename"
	ActionShare    = "share"
	ActionDelete   = "delete"
	ActionDownload = "download"
	ActionDetails  = "details"
)

// CanPerform reports whether the user may perform the action on the file.
// Rename, share, and delete are owner-only. Everything else is permitted to
// any user who can see the file at all; visibility itself is enforced by the
// listing query, not here. Sharees never gain the owner-only actions.
func CanPerform(action string, u *model.User, f *model.File) bool {
	switch action {
	case ActionRename, ActionShare, ActionDelete:
		return u != nil && f != nil && u.ID == f.OwnerID
	default:
		return true
	}
}
