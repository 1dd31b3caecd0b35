// Package boardapi talks to the remote board service. It is the only place
// that knows the upstream wire format; everything above it works on
// model.Record / model.RemotePage.
package boardapi

import (
	"context"

	"github.com/fieldops/boardgate/internal/model"
)

// Client is the single upstream capability the aggregation core consumes.
//
// FetchPage returns one page of a cursor traversal. Pass an empty cursor to
// start a traversal; an empty cursor on the returned page means exhaustion.
// columnIDs restricts which columns the upstream renders, to bound payload
// size — callers should request only what they will read.
type Client interface {
	FetchPage(ctx context.Context, boardID, cursor string, columnIDs []string) (model.RemotePage, error)
	ResolveAssetRefs(ctx context.Context, ids []string) (map[string]model.AssetRef, error)
	Ping(ctx context.Context) error
}
