package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getmockd/crudcontract/pkg/transport"
)

// Paths of the Users resource.
const (
	CollectionPath = "/users"
	ItemPath       = "/users/{id}"
)

// BrowserUserAgent is the User-Agent sent with read-all requests.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.0.0 Safari/537.36"

// Client issues Users resource calls over a Transport. Every method returns
// the raw response; callers assert on status and body.
type Client struct {
	t transport.Transport
}

// NewClient creates a Client.
func NewClient(t transport.Transport) *Client {
	return &Client{t: t}
}

// Create sends POST /users with u as the JSON body.
func (c *Client) Create(ctx context.Context, u User) (*transport.Response, error) {
	return c.sendJSON(ctx, http.MethodPost, CollectionPath, nil, u)
}

// GetAll sends GET /users with the browser User-Agent and a JSON Accept header.
func (c *Client) GetAll(ctx context.Context) (*transport.Response, error) {
	return c.t.Send(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   CollectionPath,
		Headers: http.Header{
			"User-Agent": {BrowserUserAgent},
			"Accept":     {"application/json"},
		},
	})
}

// Get sends GET /users/{id}.
func (c *Client) Get(ctx context.Context, id int) (*transport.Response, error) {
	return c.t.Send(ctx, &transport.Request{
		Method:     http.MethodGet,
		Path:       ItemPath,
		PathParams: idParam(id),
	})
}

// Update sends PUT /users/{id} with u as the JSON body.
func (c *Client) Update(ctx context.Context, id int, u User) (*transport.Response, error) {
	return c.sendJSON(ctx, http.MethodPut, ItemPath, idParam(id), u)
}

// Delete sends DELETE /users/{id}.
func (c *Client) Delete(ctx context.Context, id int) (*transport.Response, error) {
	return c.t.Send(ctx, &transport.Request{
		Method:     http.MethodDelete,
		Path:       ItemPath,
		PathParams: idParam(id),
	})
}

func (c *Client) sendJSON(ctx context.Context, method, path string, params map[string]string, u User) (*transport.Response, error) {
	body, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}
	return c.t.Send(ctx, &transport.Request{
		Method:     method,
		Path:       path,
		PathParams: params,
		Headers:    http.Header{"Content-Type": {"application/json"}},
		Body:       body,
	})
}

func idParam(id int) map[string]string {
	return map[string]string{"id": strconv.Itoa(id)}
}
