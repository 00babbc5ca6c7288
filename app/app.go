package app

import (
	"context"

	"github.com/mbolis/monday-forms/config"
	"github.com/mbolis/monday-forms/configstore"
	"github.com/mbolis/monday-forms/monday"
	"github.com/mbolis/monday-forms/registry"
	"github.com/mbolis/monday-forms/submission"
)

// Board is the part of the external board client used by the handlers.
type Board interface {
	Configured() bool
	Item(ctx context.Context, itemID string) (monday.Item, error)
	ChangeColumnValue(ctx context.Context, boardID, itemID, columnID, value string) error
}

type App struct {
	config.Config
	Configs     *configstore.Cache
	Forms       *registry.Registry
	Submissions *submission.Dispatcher
	Board       Board

	// AlwaysAccept makes the submit endpoint report success once the
	// submission is queued, whatever happens when it is pushed to the board.
	// Failures are only visible in the logs.
	AlwaysAccept bool
}
