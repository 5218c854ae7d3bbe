package api

import (
	"context"
	"net/http"
)

// Bid-specific endpoints beyond plain CRUD.

const acceptedBidsPath = "/bids/accepted"

// PlaceBid submits an offer on a load.
func (c *Client) PlaceBid(ctx context.Context, bidID string, amount float64, note string) error {
	body := map[string]any{"amount": amount}
	if note != "" {
		body["note"] = note
	}
	_, err := c.do(ctx, http.MethodPost, Bids.ItemPath(bidID)+"/place", body)
	return err
}

// AcceptedBids lists bids the customer has accepted and that await a driver.
func (c *Client) AcceptedBids(ctx context.Context) ([]Record, error) {
	env, err := c.do(ctx, http.MethodGet, acceptedBidsPath, nil)
	if err != nil {
		return nil, err
	}
	return env.records(Bids.PluralKey)
}

// AssignDriver attaches a driver to an accepted bid.
func (c *Client) AssignDriver(ctx context.Context, bidID, driverID string) error {
	if driverID == "" {
		return &Error{Kind: KindValidation, Op: "assign driver", Message: "Please choose a driver."}
	}
	_, err := c.do(ctx, http.MethodPut, Bids.ItemPath(bidID)+"/assign-driver", map[string]any{"driverId": driverID})
	return err
}

// Thread fetches the negotiation messages of a bid, oldest first.
func (c *Client) Thread(ctx context.Context, bidID string) ([]Record, error) {
	env, err := c.do(ctx, http.MethodGet, Bids.ItemPath(bidID)+"/negotiation", nil)
	if err != nil {
		return nil, err
	}
	return env.records("messages")
}

// PostMessage appends a message, optionally with a counter-offer, to a bid's thread.
func (c *Client) PostMessage(ctx context.Context, bidID, text string, counter float64) error {
	if text == "" && counter == 0 {
		return &Error{Kind: KindValidation, Op: "post message", Message: "Please enter a message or a counter-offer."}
	}
	body := map[string]any{"message": text}
	if counter > 0 {
		body["counterOffer"] = counter
	}
	_, err := c.do(ctx, http.MethodPost, Bids.ItemPath(bidID)+"/negotiation", body)
	return err
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, res Resource, id string) (Record, error) {
	env, err := c.do(ctx, http.MethodGet, res.ItemPath(id), nil)
	if err != nil {
		return nil, err
	}
	return env.record()
}
