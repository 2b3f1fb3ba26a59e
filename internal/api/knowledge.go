package api

import "context"

type askRequest struct {
	Message string `json:"message"`
}

// Ask queries the keyword knowledge base. The payload shape is decided
// server-side; Kind is derived from whichever fields came back.
func (c *Client) Ask(ctx context.Context, message string) (Advice, error) {
	var advice Advice
	if err := c.post(ctx, "/users/ask", askRequest{Message: message}, &advice); err != nil {
		return Advice{}, err
	}
	advice.classify()
	return advice, nil
}
