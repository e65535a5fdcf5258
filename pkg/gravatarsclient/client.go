// Client for the gravatars server's JSON API
package gravatarsclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/function61/gokit/net/http/ezhttp"
	"github.com/function61/gravatars/pkg/gravatar"
	"github.com/function61/gravatars/pkg/gravatartypes"
)

type Client struct {
	serverBaseurl string
}

func New(serverBaseurl string) *Client {
	return &Client{serverBaseurl}
}

func (c *Client) URLs(
	ctx context.Context,
	email string,
	size int,
	generators ...gravatar.Generator,
) (*gravatartypes.URLs, error) {
	urls := &gravatartypes.URLs{}
	_, err := ezhttp.Get(
		ctx,
		c.urlsEndpoint(email, size, generators),
		ezhttp.RespondsJson(urls, true))
	return urls, err
}

func (c *Client) urlsEndpoint(email string, size int, generators []gravatar.Generator) string {
	query := url.Values{
		"email": {email},
		"size":  {strconv.Itoa(size)},
	}

	for _, gen := range generators {
		query.Add("d", string(gen))
	}

	return c.serverBaseurl + "/api/urls?" + query.Encode()
}
