package backend

import (
	"context"
	"net/http"
)

// Brands returns the active brands.
func (c *Client) Brands(ctx context.Context) ([]Brand, error) {
	var out []Brand
	if err := c.getJSON(ctx, "brands", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicStats returns the home page counters.
func (c *Client) PublicStats(ctx context.Context) (*PublicStats, error) {
	var out PublicStats
	if err := c.getJSON(ctx, "stats/public", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscribeNewsletter registers email for the newsletter.
func (c *Client) SubscribeNewsletter(ctx context.Context, email string) (*Message, error) {
	var out Message
	payload := map[string]string{"email": email}
	if err := c.doJSON(ctx, http.MethodPost, "newsletter/subscribe", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEnquiry submits a customer enquiry.
func (c *Client) CreateEnquiry(ctx context.Context, in EnquiryInput) (*Enquiry, error) {
	var out Enquiry
	if err := c.doJSON(ctx, http.MethodPost, "enquiries", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CaptureLead records a buyer's interest in a vehicle.
func (c *Client) CaptureLead(ctx context.Context, in LeadInput) (*LeadResult, error) {
	var out LeadResult
	if err := c.doJSON(ctx, http.MethodPost, "leads/capture", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
