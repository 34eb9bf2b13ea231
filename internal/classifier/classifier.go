// Package classifier calls an external model to suggest department,
// category and priority for new tickets. The contract is strictly
// best-effort: any failure yields an empty suggestion and ticket
// creation proceeds with whatever the request carried.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/config"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
)

// Candidate names an option the classifier may pick from.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Request carries the ticket text plus the valid choices.
type Request struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Departments []Candidate             `json:"departments"`
	Categories  []Candidate             `json:"categories"`
	Priorities  []domain.TicketPriority `json:"priorities"`
}

// Suggestion is a partial classification; unset fields stay nil/empty.
type Suggestion struct {
	DepartmentID *string               `json:"department_id,omitempty"`
	CategoryID   *string               `json:"category_id,omitempty"`
	Priority     domain.TicketPriority `json:"priority,omitempty"`
}

// Classifier suggests ticket fields from free text.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Suggestion, error)
}

type httpClassifier struct {
	cfg    config.ClassifierConfig
	client *http.Client
}

// NewHTTPClassifier builds a classifier calling the configured endpoint.
// Returns nil when no URL is configured; callers must treat a nil
// classifier as "no suggestions".
func NewHTTPClassifier(cfg config.ClassifierConfig) Classifier {
	if cfg.URL == "" {
		return nil
	}
	return &httpClassifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *httpClassifier) Classify(ctx context.Context, req Request) (Suggestion, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Suggestion{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Suggestion{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Suggestion{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return Suggestion{}, err
	}
	return suggestion, nil
}
