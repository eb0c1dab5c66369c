package carbonapi

import (
	"context"

	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/session"
)

func (c *Client) ListMaterials(ctx context.Context, id session.Identity) ([]domain.Material, error) {
	out := listOf[domain.Material]{keys: []string{"materials", "items"}}
	if err := c.getJSON(ctx, id, "ListMaterials", "/materials", nil, &out); err != nil {
		return nil, err
	}
	return out.result(), nil
}

func (c *Client) ListElements(ctx context.Context, id session.Identity) ([]domain.Element, error) {
	out := listOf[domain.Element]{keys: []string{"elements", "items"}}
	if err := c.getJSON(ctx, id, "ListElements", "/elements", nil, &out); err != nil {
		return nil, err
	}
	return out.result(), nil
}
