package schoolapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup endpoint answers with no match.
var ErrNotFound = errors.New("not found")

// ScheduleFetcher defines the schedule service operations used by the
// synchronizer. It is implemented by *Client and can be faked in tests.
type ScheduleFetcher interface {
	GetMySchool(ctx context.Context, kind Kind) (Code, error)
	SearchSchoolByCode(ctx context.Context, code Code) (School, error)
	SearchSchoolsByName(ctx context.Context, name string) ([]School, error)
	GetAllSchoolSchedule(ctx context.Context, query ScheduleQuery) ([]Schedule, error)
	SearchRegionByID(ctx context.Context, code Code) (Region, error)
	SearchAverageScheduleByGrade(ctx context.Context, query AverageQuery) ([]Schedule, error)
}

// Ensure Client implements ScheduleFetcher at compile time.
var _ ScheduleFetcher = (*Client)(nil)

// Client talks to the schedule service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger

	mu    sync.RWMutex
	token string
}

const (
	defaultAPIBase        = "127.0.0.1:8080"
	defaultUserAgent      = "schoolcal/0.1"
	defaultRequestTimeout = 5 * time.Second
)

// NewClient builds a Client for apiBase. A zero timeout uses the default.
func NewClient(apiBase string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		logger:    logger,
	}, nil
}

// SetToken sets the bearer token sent with every request. An empty token
// sends anonymous requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// GetMySchool returns the user's saved school or region code for kind. An
// empty code means none is saved.
func (c *Client) GetMySchool(ctx context.Context, kind Kind) (Code, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("type", string(kind))
	var payload MySchoolResponse
	if err := c.get(ctx, "/api/users/me/school", values, &payload); err != nil {
		return "", err
	}
	return payload.Code, nil
}

// SearchSchoolByCode resolves display name and education office code.
func (c *Client) SearchSchoolByCode(ctx context.Context, code Code) (School, error) {
	if c == nil {
		return School{}, fmt.Errorf("client is nil")
	}
	if code.Empty() {
		return School{}, fmt.Errorf("school code required")
	}
	var payload []School
	if err := c.get(ctx, "/api/schools/code/"+code.String(), nil, &payload); err != nil {
		return School{}, err
	}
	if len(payload) == 0 {
		return School{}, fmt.Errorf("school %s: %w", code, ErrNotFound)
	}
	school := payload[0]
	if school.SchoolCode.Empty() {
		school.SchoolCode = code
	}
	return school, nil
}

// SearchSchoolsByName returns schools matching name.
func (c *Client) SearchSchoolsByName(ctx context.Context, name string) ([]School, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("school name required")
	}
	values := url.Values{}
	values.Set("name", name)
	var payload []School
	if err := c.get(ctx, "/api/schools/search", values, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("school %q: %w", name, ErrNotFound)
	}
	return payload, nil
}

// GetAllSchoolSchedule fetches the full schedule of one school.
func (c *Client) GetAllSchoolSchedule(ctx context.Context, query ScheduleQuery) ([]Schedule, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if query.Code.Empty() {
		return nil, fmt.Errorf("school code required")
	}
	values := url.Values{}
	if atpt := strings.TrimSpace(query.AtptCode); atpt != "" {
		values.Set("atptCode", atpt)
	}
	if query.Year > 0 {
		values.Set("year", strconv.Itoa(query.Year))
	}
	if query.Grade > 0 {
		values.Set("grade", strconv.Itoa(query.Grade))
	}
	path := "/api/schools/" + query.Code.String() + "/schedules"
	var payload []Schedule
	if err := c.get(ctx, path, values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SearchRegionByID resolves a region display name.
func (c *Client) SearchRegionByID(ctx context.Context, code Code) (Region, error) {
	if c == nil {
		return Region{}, fmt.Errorf("client is nil")
	}
	if code.Empty() {
		return Region{}, fmt.Errorf("region id required")
	}
	var payload regionEnvelope
	if err := c.get(ctx, "/api/regions/"+code.String(), nil, &payload); err != nil {
		return Region{}, err
	}
	if strings.TrimSpace(payload.Data.Name) == "" {
		return Region{}, fmt.Errorf("region %s: %w", code, ErrNotFound)
	}
	return payload.Data, nil
}

// SearchAverageScheduleByGrade fetches the averaged schedule of a region.
func (c *Client) SearchAverageScheduleByGrade(ctx context.Context, query AverageQuery) ([]Schedule, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	name := strings.TrimSpace(query.RegionName)
	if name == "" {
		return nil, fmt.Errorf("region name required")
	}
	values := url.Values{}
	values.Set("regionName", name)
	if query.Grade > 0 {
		values.Set("grade", strconv.Itoa(query.Grade))
	}
	if query.Year > 0 {
		values.Set("year", strconv.Itoa(query.Year))
	}
	var payload scheduleEnvelope
	if err := c.get(ctx, "/api/regions/schedules/average", values, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(values) > 0 {
		rel.RawQuery = values.Encode()
	}
	return c.doURL(ctx, http.MethodGet, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("path", rel.Path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		zap.String("path", rel.Path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
