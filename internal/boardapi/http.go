package boardapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/fieldops/boardgate/internal/model"
)

// HTTPClient is the resty-backed Client implementation.
type HTTPClient struct {
	client   *resty.Client
	pageSize int
}

// NewHTTPClient creates a client for the board service at baseURL. Every
// request carries the auth token and is bounded by timeout; a timed-out
// page fetch aborts only the traversal that issued it.
func NewHTTPClient(baseURL, token string, timeout time.Duration, pageSize int) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if token != "" {
		c.SetHeader("Authorization", token)
	}
	return &HTTPClient{client: c, pageSize: pageSize}
}

// Wire types. Column values carry a rendered text plus a raw JSON value
// whose shape depends on the column type.

type pageRequest struct {
	BoardID   string   `json:"boardId"`
	Cursor    string   `json:"cursor,omitempty"`
	Limit     int      `json:"limit"`
	ColumnIDs []string `json:"columnIds,omitempty"`
}

type pageResponse struct {
	Items  []wireItem `json:"items"`
	Cursor string     `json:"cursor"`
}

type wireItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Columns  []wireColumn `json:"columnValues"`
	Subitems []wireItem   `json:"subitems,omitempty"`
}

type wireColumn struct {
	ID    string          `json:"id"`
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Value json.RawMessage `json:"value,omitempty"`
}

// FetchPage implements Client.
func (c *HTTPClient) FetchPage(ctx context.Context, boardID, cursor string, columnIDs []string) (model.RemotePage, error) {
	req := pageRequest{BoardID: boardID, Cursor: cursor, Limit: c.pageSize, ColumnIDs: columnIDs}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/v1/items/query")
	if err != nil {
		return model.RemotePage{}, model.NewUpstreamError("fetch page", boardID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return model.RemotePage{}, model.NewUpstreamError("fetch page", boardID,
			fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	var pr pageResponse
	if err := json.Unmarshal(resp.Body(), &pr); err != nil {
		return model.RemotePage{}, model.NewUpstreamError("fetch page", boardID,
			fmt.Errorf("decode response: %w", err))
	}

	page := model.RemotePage{Cursor: pr.Cursor, Items: make([]model.Record, 0, len(pr.Items))}
	for _, it := range pr.Items {
		page.Items = append(page.Items, toRecord(it))
	}
	return page, nil
}

func toRecord(it wireItem) model.Record {
	rec := model.Record{ID: it.ID, Name: it.Name}
	if len(it.Columns) > 0 {
		rec.Fields = make(map[string]model.Field, len(it.Columns))
		for _, col := range it.Columns {
			rec.Fields[col.ID] = parseColumn(col)
		}
	}
	for _, sub := range it.Subitems {
		rec.Children = append(rec.Children, toRecord(sub))
	}
	return rec
}

// parseColumn converts one wire column into a typed field. This is the only
// place raw values are parsed; a malformed raw value degrades to an empty
// typed member and the rendered text survives as display fallback.
func parseColumn(col wireColumn) model.Field {
	f := model.Field{Kind: model.FieldText, Text: col.Text}

	switch col.Type {
	case "relation", "board-relation":
		f.Kind = model.FieldRelation
		var raw struct {
			LinkedIDs []json.Number `json:"linkedIds"`
		}
		if err := json.Unmarshal(col.Value, &raw); err != nil {
			log.Debug().Str("column", col.ID).Err(err).Msg("malformed relation value, treating as empty")
			break
		}
		for _, id := range raw.LinkedIDs {
			f.RelationIDs = append(f.RelationIDs, id.String())
		}
	case "timeline", "daterange":
		f.Kind = model.FieldDateRange
		var raw struct {
			From string `json:"from"`
			To   string `json:"to"`
		}
		if err := json.Unmarshal(col.Value, &raw); err != nil || raw.From == "" {
			if err != nil {
				log.Debug().Str("column", col.ID).Err(err).Msg("malformed timeline value, treating as empty")
			}
			break
		}
		start, err := time.Parse("2006-01-02", raw.From)
		if err != nil {
			break
		}
		dr := &model.DateRange{Start: start}
		if raw.To != "" {
			if end, err := time.Parse("2006-01-02", raw.To); err == nil {
				dr.End = end
			}
		}
		f.Dates = dr
	case "file", "files":
		f.Kind = model.FieldFiles
		var raw struct {
			Files []struct {
				AssetID json.Number `json:"assetId"`
			} `json:"files"`
		}
		if err := json.Unmarshal(col.Value, &raw); err != nil {
			log.Debug().Str("column", col.ID).Err(err).Msg("malformed files value, treating as empty")
			break
		}
		for _, fl := range raw.Files {
			f.FileIDs = append(f.FileIDs, fl.AssetID.String())
		}
	}
	return f
}

type assetRequest struct {
	IDs []string `json:"ids"`
}

type assetResponse struct {
	Assets []struct {
		ID   json.Number `json:"id"`
		URL  string      `json:"url"`
		Name string      `json:"name"`
	} `json:"assets"`
}

// ResolveAssetRefs implements Client.
func (c *HTTPClient) ResolveAssetRefs(ctx context.Context, ids []string) (map[string]model.AssetRef, error) {
	if len(ids) == 0 {
		return map[string]model.AssetRef{}, nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&assetRequest{IDs: ids}).
		Post("/v1/assets/resolve")
	if err != nil {
		return nil, model.NewUpstreamError("resolve assets", "", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, model.NewUpstreamError("resolve assets", "",
			fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	var ar assetResponse
	if err := json.Unmarshal(resp.Body(), &ar); err != nil {
		return nil, model.NewUpstreamError("resolve assets", "", fmt.Errorf("decode response: %w", err))
	}

	out := make(map[string]model.AssetRef, len(ar.Assets))
	for _, a := range ar.Assets {
		out[a.ID.String()] = model.AssetRef{URL: a.URL, DisplayName: a.Name}
	}
	return out, nil
}

// Ping implements Client with a cheap upstream reachability probe.
func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get("/v1/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("board service health status %d", resp.StatusCode())
	}
	return nil
}
