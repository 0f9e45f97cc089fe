package platform

import "fmt"

// BusinessSummary is the admin business overview panel data
type BusinessSummary struct {
	TotalClients  int     `json:"total_clients"`
	PayingClients int     `json:"paying_clients"`
	MRR           float64 `json:"mrr"`
	ARPU          float64 `json:"arpu"`
}

// SystemHealth is the admin system health panel data
type SystemHealth struct {
	ContainerUptime string      `json:"container_uptime"`
	SchedulerStatus string      `json:"scheduler_status"`
	Jobs            []HealthJob `json:"jobs"`
}

// HealthJob is one scheduled job in the system health report
type HealthJob struct {
	Name    string `json:"name"`
	NextRun string `json:"next_run"`
	Status  string `json:"status"`
}

// AdminUser is one row of the platform-wide user table
type AdminUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
	Role  string `json:"role"`
}

// Payment is one row of the payment management table
type Payment struct {
	ID              int64   `json:"id"`
	Email           string  `json:"email"`
	Provider        string  `json:"provider"`
	Plan            string  `json:"plan"`
	MonthlyFee      float64 `json:"monthly_fee"`
	Status          string  `json:"status"`
	LastPaymentDate string  `json:"last_payment_date"`
	NextPaymentDue  string  `json:"next_payment_due"`
}

type adminLogsResponse struct {
	Lines []string `json:"lines"`
}

// GetBusinessSummary retrieves platform-wide business metrics.
// Requires an elevated role; the server enforces it.
func (c *Client) GetBusinessSummary() (*BusinessSummary, error) {
	resp, err := c.doRequest("GET", "/api/admin/business_summary", nil)
	if err != nil {
		return nil, err
	}

	var summary BusinessSummary
	if err := parseResponse(resp, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetSystemHealth retrieves scheduler and container health
func (c *Client) GetSystemHealth() (*SystemHealth, error) {
	resp, err := c.doRequest("GET", "/api/admin/system_health", nil)
	if err != nil {
		return nil, err
	}

	var health SystemHealth
	if err := parseResponse(resp, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetAdminLogs retrieves recent platform log lines
func (c *Client) GetAdminLogs() ([]string, error) {
	resp, err := c.doRequest("GET", "/api/admin/logs", nil)
	if err != nil {
		return nil, err
	}

	var logs adminLogsResponse
	if err := parseResponse(resp, &logs); err != nil {
		return nil, err
	}
	return logs.Lines, nil
}

// GetAdminUsers retrieves the platform-wide user table
func (c *Client) GetAdminUsers() ([]AdminUser, error) {
	resp, err := c.doRequest("GET", "/api/admin/users", nil)
	if err != nil {
		return nil, err
	}

	var users []AdminUser
	if err := parseResponse(resp, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddAdminUser creates a platform user from the admin console
func (c *Client) AddAdminUser(name, email string) error {
	resp, err := c.doRequest("POST", "/api/admin/users/add", map[string]string{
		"name":  name,
		"email": email,
	})
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// DeleteAdminUser removes a platform user
func (c *Client) DeleteAdminUser(userID int64) error {
	resp, err := c.doRequest("DELETE", fmt.Sprintf("/api/admin/users/%d", userID), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// GetPayments retrieves the payment management table
func (c *Client) GetPayments() ([]Payment, error) {
	resp, err := c.doRequest("GET", "/api/admin/payments", nil)
	if err != nil {
		return nil, err
	}

	var payments []Payment
	if err := parseResponse(resp, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// RetryPayment retries a failed payment
func (c *Client) RetryPayment(paymentID int64) error {
	resp, err := c.doRequest("POST", fmt.Sprintf("/api/admin/payments/retry/%d", paymentID), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// RunJob triggers a named scheduler job ("token_refresh", "daily_sync")
func (c *Client) RunJob(job string) error {
	resp, err := c.doRequest("POST", "/api/admin/run_job", map[string]string{"job": job})
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}
