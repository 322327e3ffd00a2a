package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CustomerRoomPath is the endpoint that opens or resumes a customer's room.
const CustomerRoomPath = "api/customer/room"

// CustomerRoom asks the server for the caller's room. The server resumes the
// room named by its cookie when hc carries a jar with one, and creates a new
// room otherwise.
func (c *Client) CustomerRoom(ctx context.Context, hc *http.Client) (string, error) {
	if hc == nil {
		hc = http.DefaultClient
	}

	url := c.origin.HTTPURL(CustomerRoomPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("build customer room request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("request customer room: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("request customer room: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode customer room: %w", err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("decode customer room: empty room id")
	}

	c.log.Info().Str("room_id", body.ID).Int("status", resp.StatusCode).Msg("customer room resolved")
	return body.ID, nil
}
