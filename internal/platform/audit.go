package platform

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"time"
)

// AuditEvent is one entry of the company audit log, already in
// canonical form.
type AuditEvent struct {
	Timestamp string `json:"timestamp"`
	CreatedAt string `json:"created_at"`
	UserEmail string `json:"user_email"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// When returns the event time, preferring timestamp over created_at.
// Unparseable times sort as the zero time, i.e. last in a descending
// list.
func (e AuditEvent) When() time.Time {
	for _, raw := range []string{e.Timestamp, e.CreatedAt} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

// Shown returns the display string for the event time.
func (e AuditEvent) Shown() string {
	if e.Timestamp != "" {
		return e.Timestamp
	}
	return e.CreatedAt
}

// AuditFilter narrows the audit query. Zero-value fields are omitted.
type AuditFilter struct {
	Email string
	Start string
	End   string
}

func (f AuditFilter) query() string {
	q := url.Values{}
	if f.Email != "" {
		q.Set("email", f.Email)
	}
	if f.Start != "" {
		q.Set("start", f.Start)
	}
	if f.End != "" {
		q.Set("end", f.End)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// GetAuditLog retrieves the company audit log, newest first.
//
// The server returns either a bare JSON array or an {"events": [...]}
// wrapper; both normalize here into one canonical slice so no caller
// ever sees the difference.
func (c *Client) GetAuditLog(filter AuditFilter) ([]AuditEvent, error) {
	resp, err := c.doRequest("GET", "/api/company/audit-log"+filter.query(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		} else {
			apiErr.Message = string(body)
		}
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	events, err := normalizeAuditPayload(body)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].When().After(events[j].When())
	})
	return events, nil
}

// normalizeAuditPayload is the single adapter between the two wire
// shapes and the canonical event slice.
func normalizeAuditPayload(body []byte) ([]AuditEvent, error) {
	var bare []AuditEvent
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Events []AuditEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode audit log payload: %w", err)
	}
	return wrapped.Events, nil
}
