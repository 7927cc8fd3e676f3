// Package client retrieves zone data over HTTP for the viewer widget.
package client

import (
	"io"
	"net/http"

	"github.com/kevinburke/rest"
)

// UserAgent identifies the library on outgoing requests.
const UserAgent = "zonewidget/1.0 (github.com/A01L/ZoneWidget)"

type Client struct {
	Client *rest.Client
	Host   string

	Zones *ZoneService
}

// New returns a client bound to the given host, e.g. "https://example.com".
func New(host string) *Client {
	c := new(Client)
	c.Host = host
	c.Client = rest.NewClient("", "", host)

	c.Zones = &ZoneService{c}
	return c
}

// NewRequest creates a new HTTP request to hit the given endpoint.
func (c *Client) NewRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := c.Client.NewRequest(method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent+" "+req.Header.Get("User-Agent"))
	return req, nil
}
