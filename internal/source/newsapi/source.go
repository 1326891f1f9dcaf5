package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"news_reader/internal/domain"
)

const (
	SourceID   = "newsapi"
	SourceName = "News API top headlines"

	statusOK = "ok"
)

// Config holds News API source configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	Country        string
	PageSize       int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// APIError is a non-success answer from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("news api: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("news api: unexpected status: %d", e.StatusCode)
}

// Retryable reports whether repeating the request may succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Source fetches top headlines for a single country.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	country        string
	pageSize       int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a new News API source.
func New(cfg Config, logger *slog.Logger) *Source {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		country:        cfg.Country,
		pageSize:       cfg.PageSize,
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// TopHeadlines fetches one 1-based page of headlines.
func (s *Source) TopHeadlines(ctx context.Context, page int) (*domain.Headlines, error) {
	var resp *APIResponse
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err = s.doRequest(ctx, s.pageURL(page))
		if err == nil {
			s.logger.Debug("fetched page",
				"page", page,
				"articles", len(resp.Articles),
			)
			return s.transform(resp), nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, err
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"page", page,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) pageURL(page int) string {
	q := url.Values{}
	q.Set("country", s.country)
	q.Set("apiKey", s.apiKey)
	q.Set("pageSize", strconv.Itoa(s.pageSize))
	q.Set("page", strconv.Itoa(page))
	return s.baseURL + "/top-headlines?" + q.Encode()
}

func (s *Source) doRequest(ctx context.Context, endpoint string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "NewsReader/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&apiResp)

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = apiResp.Code
			apiErr.Message = apiResp.Message
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	if apiResp.Status != statusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       apiResp.Code,
			Message:    apiResp.Message,
		}
	}

	return &apiResp, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func (s *Source) transform(resp *APIResponse) *domain.Headlines {
	headlines := &domain.Headlines{
		Status:       resp.Status,
		TotalResults: resp.TotalResults,
		Articles:     make([]domain.Article, 0, len(resp.Articles)),
	}

	for _, a := range resp.Articles {
		article := domain.Article{
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			PublishedAt: a.PublishedAt,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
		}
		if a.Source != nil {
			article.Source = &domain.ArticleSource{ID: a.Source.ID, Name: a.Source.Name}
		}
		headlines.Articles = append(headlines.Articles, article)
	}

	return headlines
}
