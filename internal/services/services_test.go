package services

import (
	"context"
	"fmt"

	"github.com/fieldops/boardgate/internal/model"
)

// boardFake serves canned pages per board and records calls.
type boardFake struct {
	pages      map[string][][]model.Record
	fetchCount int

	assets       map[string]model.AssetRef
	assetCalls   int
	assetLastIDs []string

	pingErr error
}

func (f *boardFake) FetchPage(_ context.Context, boardID, cursor string, _ []string) (model.RemotePage, error) {
	f.fetchCount++
	pages := f.pages[boardID]
	idx := 0
	if cursor != "" {
		if _, err := fmt.Sscanf(cursor, "page-%d", &idx); err != nil {
			return model.RemotePage{}, fmt.Errorf("bad cursor %q", cursor)
		}
	}
	if idx >= len(pages) {
		return model.RemotePage{Items: []model.Record{}}, nil
	}
	next := ""
	if idx+1 < len(pages) {
		next = fmt.Sprintf("page-%d", idx+1)
	}
	return model.RemotePage{Items: pages[idx], Cursor: next}, nil
}

func (f *boardFake) ResolveAssetRefs(_ context.Context, ids []string) (map[string]model.AssetRef, error) {
	f.assetCalls++
	f.assetLastIDs = ids
	out := make(map[string]model.AssetRef, len(ids))
	for _, id := range ids {
		if ref, ok := f.assets[id]; ok {
			out[id] = ref
		}
	}
	return out, nil
}

func (f *boardFake) Ping(context.Context) error { return f.pingErr }

func textField(text string) model.Field {
	return model.Field{Kind: model.FieldText, Text: text}
}

func relationField(ids ...string) model.Field {
	return model.Field{Kind: model.FieldRelation, RelationIDs: ids}
}

func filesField(ids ...string) model.Field {
	return model.Field{Kind: model.FieldFiles, FileIDs: ids}
}
