package platform

import (
	"context"
	"net/url"

	"github.com/medrush/opsconsole/internal/listing"
)

// listSource adapts one endpoint to the listing.Source contract.
type listSource struct {
	client   *Client
	endpoint Endpoint
	token    string
}

// ListSource returns a listing.Source bound to one endpoint and bearer token.
func (c *Client) ListSource(ep Endpoint, token string) listing.Source {
	return &listSource{client: c, endpoint: ep, token: token}
}

func (s *listSource) FetchRows(ctx context.Context, params url.Values) ([]listing.Row, *listing.PaginationMeta, error) {
	env, err := s.client.Get(ctx, s.endpoint.ListPath, s.token, params)
	if err != nil {
		return nil, nil, err
	}
	adapter := s.endpoint.Adapter()
	rows, err := adapter.ExtractRows(env)
	if err != nil {
		return nil, nil, err
	}
	return rows, adapter.ExtractMeta(env), nil
}
