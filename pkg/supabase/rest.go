package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const preferRepresentation = "return=representation"

func tablePath(table string) string {
	return "/rest/v1/" + url.PathEscape(strings.TrimSpace(table))
}

func eqFilter(column, value string) url.Values {
	return url.Values{column: []string{"eq." + value}}
}

// Select reads rows of table into dest. query carries PostgREST parameters such as select and order.
func (c *Client) Select(ctx context.Context, token, table string, query url.Values, dest any) error {
	if query == nil {
		query = url.Values{}
	}
	if query.Get("select") == "" {
		query.Set("select", "*")
	}
	req := request{method: http.MethodGet, path: tablePath(table), query: query, token: token}
	return c.do(ctx, req, dest)
}

func (c *Client) Insert(ctx context.Context, token, table string, row any) error {
	req, err := jsonRequest(http.MethodPost, tablePath(table), row)
	if err != nil {
		return err
	}
	req.token = token
	req.headers = map[string]string{"Prefer": "return=minimal"}
	return c.do(ctx, req, nil)
}

// Update patches rows where column equals value and returns the number of rows changed.
func (c *Client) Update(ctx context.Context, token, table, column, value string, fields any) (int, error) {
	req, err := jsonRequest(http.MethodPatch, tablePath(table), fields)
	if err != nil {
		return 0, err
	}
	req.token = token
	req.query = eqFilter(column, value)
	req.headers = map[string]string{"Prefer": preferRepresentation}
	var rows []json.RawMessage
	if err := c.do(ctx, req, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Delete removes rows where column equals value and returns the number of rows removed.
func (c *Client) Delete(ctx context.Context, token, table, column, value string) (int, error) {
	req := request{
		method:  http.MethodDelete,
		path:    tablePath(table),
		query:   eqFilter(column, value),
		token:   token,
		headers: map[string]string{"Prefer": preferRepresentation},
	}
	var rows []json.RawMessage
	if err := c.do(ctx, req, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
