package api

import "context"

// Resources fetches the acting NGO's inventory.
func (c *Client) Resources(ctx context.Context) ([]Resource, error) {
	var resources []Resource
	if err := c.get(ctx, "/users/getResources", nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// AddResource creates a new inventory item and returns the stored record.
func (c *Client) AddResource(ctx context.Context, draft ResourceDraft) (Resource, error) {
	var resource Resource
	if err := c.post(ctx, "/users/addResources", draft, &resource); err != nil {
		return Resource{}, err
	}
	return resource, nil
}

// UpdateResource issues a partial update against one inventory item.
func (c *Client) UpdateResource(ctx context.Context, id string, draft ResourceDraft) (Resource, error) {
	var resource Resource
	if err := c.patch(ctx, "/users/updateResource/"+id, draft, &resource); err != nil {
		return Resource{}, err
	}
	return resource, nil
}

// DeleteResource removes one inventory item.
func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.delete(ctx, "/users/deleteResource/"+id)
}
