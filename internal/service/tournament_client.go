package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// TournamentClient consumes the tournament service's registration check.
// Tournament management itself lives outside this engine; only the
// accepts-registration question is asked here.
type TournamentClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTournamentClient(baseURL string, timeout time.Duration) *TournamentClient {
	return &TournamentClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type registrationResponse struct {
	Open bool `json:"open"`
}

func (c *TournamentClient) AcceptsRegistration(ctx context.Context, tournamentRef uuid.UUID) (bool, error) {
	url := fmt.Sprintf("%s/tournaments/%s/registration", c.baseURL, tournamentRef)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("AcceptsRegistration: build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("AcceptsRegistration: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("AcceptsRegistration: status %d", resp.StatusCode)
	}

	var reg registrationResponse
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil {
		return false, fmt.Errorf("AcceptsRegistration: decode: %w", err)
	}
	return reg.Open, nil
}
