// Package advisor asks a local Ollama-compatible model for a short review
// of the ledger with savings and debt tips.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/khata/internal/model"

	"github.com/rs/zerolog"
)

const (
	requestTimeout = 2 * time.Minute
	maxBodySize    = 1 << 20 // 1 MB

	// RecentLimit is how many recent transactions go into the context.
	RecentLimit = 15
)

var (
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("advisor: empty response")
)

// Client calls the /api/generate endpoint.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a client for baseURL. Returns nil if baseURL is empty.
func NewClient(baseURL, modelName string, log zerolog.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		model:   modelName,
		http:    &http.Client{},
		log:     log.With().Str("component", "advisor").Logger(),
	}
}

// RecentTransaction is the trimmed transaction shape sent to the model.
type RecentTransaction struct {
	Description string `json:"desc"`
	Amount      string `json:"amt"`
	Type        string `json:"type"`
	Category    string `json:"cat"`
	Date        string `json:"date"`
}

// Context is the financial data the model sees.
type Context struct {
	Summary            model.Summary       `json:"summary"`
	Attainment         model.Attainment    `json:"attainment"`
	Liabilities        []model.Liability   `json:"liabilities"`
	Goals              []model.Goal        `json:"goals"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
	PrimaryCurrency    string              `json:"primaryCurrency"`
	SecondaryCurrency  string              `json:"secondaryCurrency"`
}

// BuildContext assembles the model context from snap. Transactions are
// newest first, so the first limit are the most recent.
func BuildContext(snap model.Snapshot, s model.Summary, a model.Attainment, primary, secondary string, limit int) Context {
	if limit <= 0 || limit > len(snap.Transactions) {
		limit = len(snap.Transactions)
	}
	recent := make([]RecentTransaction, 0, limit)
	for _, t := range snap.Transactions[:limit] {
		code := primary
		if t.Currency.IsSecondary() {
			code = secondary
		}
		recent = append(recent, RecentTransaction{
			Description: t.Description,
			Amount:      t.Amount.String() + " " + code,
			Type:        string(t.Type),
			Category:    t.Category,
			Date:        t.Date.String(),
		})
	}

	goals := snap.Goals
	if goals == nil {
		goals = []model.Goal{}
	}
	liabilities := snap.Liabilities
	if liabilities == nil {
		liabilities = []model.Liability{}
	}

	return Context{
		Summary:            s,
		Attainment:         a,
		Liabilities:        liabilities,
		Goals:              goals,
		RecentTransactions: recent,
		PrimaryCurrency:    primary,
		SecondaryCurrency:  secondary,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Analyze sends c to the model and returns its markdown answer.
func (c *Client) Analyze(ctx context.Context, fc Context) (string, error) {
	prompt, err := buildPrompt(fc)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("advisor: encoding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("advisor: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("advisor: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisor: api error: %d - %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("advisor: parsing response: %w", err)
	}

	c.log.Debug().Str("model", out.Model).Int("chars", len(out.Response)).Msg("analysis received")

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func buildPrompt(fc Context) (string, error) {
	data, err := json.Marshal(fc)
	if err != nil {
		return "", fmt.Errorf("advisor: encoding context: %w", err)
	}

	return fmt.Sprintf(`Analyze the following personal financial data.
Data: %s

Requirements:
1. Give a concise summary of current financial health.
2. Identify any concerning spending patterns by category.
3. Give 3 actionable tips on how to increase savings and how to clear debt faster, based on the balance.
4. Mention any goal that is close to completion, and whether this month's spending looks high.
5. Keep a supportive, professional tone. Use Markdown and bold important figures.`, data), nil
}
