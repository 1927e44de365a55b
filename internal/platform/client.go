// Package platform talks to the booking platform: it downloads doctor
// profile pages and queries the slots API.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"slotscraper/internal/core"
)

const (
	// DefaultUserAgent impersonates a desktop Firefox
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/116.0"

	// DefaultTimeout bounds each request
	DefaultTimeout = 30 * time.Second

	slotsPathFormat = "/api/v3/doctors/%s/addresses/%s/slots"
)

// baseHeaders are sent with every API request.
// Accept-Encoding is left to the transport so compressed bodies are decoded transparently.
var baseHeaders = map[string]string{
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "pl,en-US;q=0.7,en;q=0.3",
	"Connection":      "keep-alive",
	"Sec-Fetch-Dest":  "empty",
	"Sec-Fetch-Mode":  "cors",
	"Sec-Fetch-Site":  "same-origin",
	"TE":              "trailers",
}

// slotRelations are the relation expansions requested from the slots API
var slotRelations = []string{
	"address.nearest_slot_after_end",
	"links.book.patient",
	"slot.doctor_id",
	"slot.address_id",
	"slot.address",
	"slot.with_booked",
}

// Config contains platform client configuration
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client implements core.BookingPlatform over HTTP
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new platform client
func NewClient(config Config) *Client {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// FetchProfile downloads the raw profile page
func (c *Client) FetchProfile(ctx context.Context, profileURL string) ([]byte, error) {
	if _, err := parseProfileURL(profileURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("fetch profile", resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile page: %w", err)
	}

	return body, nil
}

// slotsResponse is the envelope of the slots API
type slotsResponse struct {
	Items []slotItem `json:"_items"`
}

type slotItem struct {
	Start      string  `json:"start"`
	Booked     bool    `json:"booked"`
	BookingURL *string `json:"booking_url"`
}

// GetSlots queries the slots API for the doctor's address within the query window
func (c *Client) GetSlots(ctx context.Context, slotsReq core.SlotsRequest) ([]core.Slot, error) {
	if slotsReq.Token == "" {
		return nil, core.ErrEmptyToken
	}
	if err := slotsReq.Params.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := SlotsURL(slotsReq.ProfileURL, slotsReq.Params, slotsReq.Query)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, endpoint, slotsReq.ProfileURL, slotsReq.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("get slots", resp); err != nil {
		return nil, err
	}

	var result slotsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode slots response: %w", err)
	}

	slots := make([]core.Slot, 0, len(result.Items))
	for _, item := range result.Items {
		slot := core.Slot{Booked: item.Booked}
		if item.BookingURL != nil {
			slot.BookingURL = *item.BookingURL
		}
		// Unparseable start times are kept as zero and rendered blank
		if start, err := time.Parse(time.RFC3339, item.Start); err == nil {
			slot.Start = start
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// SlotsURL builds the slots endpoint on the profile URL's domain
func SlotsURL(profileURL string, params core.DoctorParams, query core.QueryParams) (string, error) {
	profile, err := parseProfileURL(profileURL)
	if err != nil {
		return "", err
	}

	values := url.Values{}
	values.Set("includingSaasOnlyCalendar", "false")
	for _, relation := range slotRelations {
		values.Add("with[]", relation)
	}
	values.Set("start", query.StartString())
	values.Set("end", query.EndString())

	endpoint := url.URL{
		Scheme:   profile.Scheme,
		Host:     profile.Host,
		Path:     fmt.Sprintf(slotsPathFormat, url.PathEscape(params.DoctorID.String()), url.PathEscape(params.AddressID.String())),
		RawQuery: values.Encode(),
	}
	return endpoint.String(), nil
}

// newRequest creates a slots API request with the browser header set
func (c *Client) newRequest(ctx context.Context, endpoint, referer, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	for name, value := range baseHeaders {
		req.Header.Set(name, value)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Referer", referer)

	return req, nil
}

func parseProfileURL(profileURL string) (*url.URL, error) {
	u, err := url.Parse(profileURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfileURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no scheme or host", ErrInvalidProfileURL, profileURL)
	}
	return u, nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

var _ core.BookingPlatform = (*Client)(nil)
