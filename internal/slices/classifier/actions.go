// Package classifier is the client slice for renaming a classifier.
//
// Each edit moves through Idle -> Editing -> AwaitingConfirmation -> Idle.
// Commit-intents are applied optimistically: the requested name (or, for a
// cancel, the last confirmed name) is shown while the host decides. Only a
// confirmation carrying the correlation id of the latest commit-intent is
// authoritative; a rollback is a confirmation carrying the previous name.
package classifier

import "github.com/bft-labs/actionbridge/internal/domain"

// Domain is the namespace of every classifier action.
const Domain domain.Domain = "classifier"

// DefaultName is the name a classifier starts with.
const DefaultName = "UMLBoard"

// Local action types.
const (
	RenamingClassifier       = "renamingClassifier"
	RenameClassifier         = "renameClassifier"
	CancelClassifierRename   = "cancelClassifierRename"
	ClassifierRenamed        = "classifierRenamed"
	ClassifierRenameCanceled = "classifierRenameCanceled"
)

// EditNameDTO is the payload of every action carrying a name.
type EditNameDTO struct {
	NewName string `json:"newName"`
}

// Renaming is the provisional action sent while the user types.
func Renaming(name string) domain.Action {
	return domain.MustAction(domain.JoinType(Domain, RenamingClassifier), EditNameDTO{NewName: name})
}

// Rename is the commit-intent for a new name.
func Rename(name string) domain.Action {
	return domain.MustAction(domain.JoinType(Domain, RenameClassifier), EditNameDTO{NewName: name})
}

// CancelRename is the commit-intent to discard the current edit.
func CancelRename() domain.Action {
	return domain.Action{Type: domain.JoinType(Domain, CancelClassifierRename)}
}

// Renamed is the host's confirmation of a name.
func Renamed(name string) domain.Action {
	return domain.MustAction(domain.JoinType(Domain, ClassifierRenamed), EditNameDTO{NewName: name})
}

// RenameCanceled is the host's confirmation of a cancel.
func RenameCanceled(name string) domain.Action {
	return domain.MustAction(domain.JoinType(Domain, ClassifierRenameCanceled), EditNameDTO{NewName: name})
}
