package api

import "context"

// OwnReports fetches the acting user's reports.
func (c *Client) OwnReports(ctx context.Context) ([]Report, error) {
	var reports []Report
	if err := c.get(ctx, "/users/getReports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// AllReports fetches the communal feed.
func (c *Client) AllReports(ctx context.Context) ([]Report, error) {
	var reports []Report
	if err := c.get(ctx, "/users/getAllReports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// CreateReport submits a new report and returns the server-assigned record.
func (c *Client) CreateReport(ctx context.Context, draft ReportDraft) (Report, error) {
	var report Report
	if err := c.post(ctx, "/users/createReport", draft, &report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// UpdateReport issues a partial update against one report.
func (c *Client) UpdateReport(ctx context.Context, id string, draft ReportDraft) (Report, error) {
	var report Report
	if err := c.patch(ctx, "/users/updateReport/"+id, draft, &report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// DeleteReport removes one report.
func (c *Client) DeleteReport(ctx context.Context, id string) error {
	return c.delete(ctx, "/users/deleteReport/"+id)
}
