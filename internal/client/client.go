// Package client talks to the station server's engine, schedule and file routes.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/models"
)

// Station routes
const (
	RouteStatus             = "/engine/status.json"
	RouteEnableInput        = "/engine/enable_input.rawxml"
	RouteScheduleDates      = "/schedules/dates.json"
	RouteScheduleSave       = "/schedules/save.rawxml"
	RouteScheduleDeactivate = "/schedules/deactivate.rawxml"
	RouteScheduleGenerate   = "/schedules/generate.rawxml"
	RouteFileSearch         = "/files/search.json"
	RouteFileSetPost        = "/files/set_post.rawxml"
)

// ErrUnexpectedResponse is returned when the station answers with a body the client does not understand.
var ErrUnexpectedResponse = errors.New("unexpected response from station")

// StatusError reports a non-2xx HTTP status.
type StatusError struct {
	Route string
	Code  int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: station returned %d %s", e.Route, e.Code, http.StatusText(e.Code))
}

// SearchQuery are the parameters of a file search.
type SearchQuery struct {
	Query     string
	Restrict  bool
	Randomize bool
}

// Client is a station API client.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates a client for the station at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the station url the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchStatus fetches the engine status.
func (c *Client) FetchStatus(ctx context.Context) (*models.Status, error) {
	var st models.Status
	if err := c.getJSON(ctx, RouteStatus, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// FetchScheduleDates fetches the schedule tree.
func (c *Client) FetchScheduleDates(ctx context.Context) ([]*models.ScheduleDate, error) {
	body, err := c.do(ctx, http.MethodPost, RouteScheduleDates, nil, url.Values{})
	if err != nil {
		return nil, err
	}
	var dates []*models.ScheduleDate
	if err := json.Unmarshal(body, &dates); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", RouteScheduleDates, ErrUnexpectedResponse, err)
	}
	// null decodes cleanly; only [] means an empty schedule.
	if dates == nil {
		return nil, fmt.Errorf("%s: %w: null body", RouteScheduleDates, ErrUnexpectedResponse)
	}
	return dates, nil
}

// SaveSchedule posts the ordered file ids of a schedule and returns the station's verdict.
func (c *Client) SaveSchedule(ctx context.Context, id int64, fileIDs []int64) (constants.SaveResult, error) {
	form := url.Values{}
	form.Set("id", strconv.FormatInt(id, 10))
	for _, fid := range fileIDs {
		form.Add("file_ids[]", strconv.FormatInt(fid, 10))
	}

	body, err := c.do(ctx, http.MethodPost, RouteScheduleSave, nil, form)
	if err != nil {
		return "", err
	}
	return ParseSaveResult(string(body))
}

// DeactivateSchedules deactivates the given schedules.
func (c *Client) DeactivateSchedules(ctx context.Context, ids []int64) error {
	form := url.Values{}
	for _, id := range ids {
		form.Add("ids[]", strconv.FormatInt(id, 10))
	}
	_, err := c.do(ctx, http.MethodPost, RouteScheduleDeactivate, nil, form)
	return err
}

// GenerateSchedules asks the station to generate upcoming schedules.
func (c *Client) GenerateSchedules(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, RouteScheduleGenerate, nil, nil)
	return err
}

// SearchFiles searches the file library.
func (c *Client) SearchFiles(ctx context.Context, q SearchQuery) ([]*models.File, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("restrict", strconv.FormatBool(q.Restrict))
	params.Set("randomize", strconv.FormatBool(q.Randomize))

	var files []*models.File
	if err := c.getJSON(ctx, RouteFileSearch, params, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// EnableInput enables or disables one live input line.
func (c *Client) EnableInput(ctx context.Context, line constants.InputLine, enabled bool) error {
	params := url.Values{}
	params.Set("input", string(line))
	params.Set("enabled", strconv.FormatBool(enabled))
	_, err := c.do(ctx, http.MethodGet, RouteEnableInput, params, nil)
	return err
}

// SetPost sets the post mark of a file.
func (c *Client) SetPost(ctx context.Context, fileID int64, post string) error {
	params := url.Values{}
	params.Set("post", post)
	params.Set("id", strconv.FormatInt(fileID, 10))
	_, err := c.do(ctx, http.MethodGet, RouteFileSetPost, params, nil)
	return err
}

// ParseSaveResult maps a save response body to its tag.
func ParseSaveResult(body string) (constants.SaveResult, error) {
	switch result := constants.SaveResult(strings.TrimSpace(body)); result {
	case constants.SaveSuccess, constants.SaveScheduleNotFound, constants.SaveScheduleOutOfSync:
		return result, nil
	}
	return "", fmt.Errorf("%s: %w: %q", RouteScheduleSave, ErrUnexpectedResponse, body)
}

func (c *Client) getJSON(ctx context.Context, route string, params url.Values, v any) error {
	body, err := c.do(ctx, http.MethodGet, route, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: %w: %v", route, ErrUnexpectedResponse, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, route string, params, form url.Values) ([]byte, error) {
	u := c.baseURL.JoinPath(route)
	if params != nil {
		u.RawQuery = params.Encode()
	}

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", route, err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", route, err)
	}
	logger.Debug("Station request", "method", method, "route", route, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Route: route, Code: resp.StatusCode}
	}
	return body, nil
}
