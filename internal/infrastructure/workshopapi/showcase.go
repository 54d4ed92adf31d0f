package workshopapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// Showcase lists delivered orders for the public gallery.
func (c *Client) Showcase(ctx context.Context, withImage bool) ([]domain.ShowcaseItem, error) {
	req := request{method: http.MethodGet, path: "/showcase/"}
	if withImage {
		req.query = url.Values{"with_image": {"true"}}
	}
	return fetchList[domain.ShowcaseItem](ctx, c, req)
}
