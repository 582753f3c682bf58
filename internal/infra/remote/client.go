package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// ErrNotFound удаленное хранилище ответило 404
var ErrNotFound = errors.New("remote: not found")

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: %s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client HTTP-клиент сервера отчетов и прогресса
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создает клиент. baseURL без завершающего слеша, например http://localhost:3001/api
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListReports возвращает все отчеты
func (c *Client) ListReports(ctx context.Context) ([]model.TrainingReport, error) {
	var reports []model.TrainingReport
	if err := c.do(ctx, http.MethodGet, "/reports", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// SubmitReport отправляет отчет
func (c *Client) SubmitReport(ctx context.Context, report model.TrainingReport) error {
	return c.do(ctx, http.MethodPost, "/reports", report, nil)
}

// ClearReports удаляет все отчеты
func (c *Client) ClearReports(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/reports", nil, nil)
}

// GetProgress возвращает сохраненный прогресс пользователя или ErrNotFound
func (c *Client) GetProgress(ctx context.Context, username string) (model.ProgressMap, error) {
	var m model.ProgressMap
	if err := c.do(ctx, http.MethodGet, progressPath(username), nil, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SaveProgress перезаписывает прогресс пользователя
func (c *Client) SaveProgress(ctx context.Context, username string, m model.ProgressMap) error {
	return c.do(ctx, http.MethodPost, progressPath(username), m, nil)
}

// DeleteProgress удаляет прогресс пользователя. ErrNotFound, если его не было.
func (c *Client) DeleteProgress(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, progressPath(username), nil, nil)
}

func progressPath(username string) string {
	return "/progress/" + url.PathEscape(username)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("remote: failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: failed to decode response: %w", err)
	}
	return nil
}
