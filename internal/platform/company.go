package platform

import "fmt"

// CompanyInfo is the company overview record
type CompanyInfo struct {
	CompanyName      string `json:"company_name"`
	Industry         string `json:"industry"`
	Timezone         string `json:"timezone"`
	Currency         string `json:"currency"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Status           string `json:"status"`
	SubscriptionPlan string `json:"subscription_plan"`
	UserCount        int    `json:"user_count"`
	CreatedAt        string `json:"created_at"`
}

// CompanyUser is one member of the company, with their role
type CompanyUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CompanyUserRequest is the add/update payload for a member
type CompanyUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CompanySettings is the editable subset of company info
type CompanySettings struct {
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Timezone    string `json:"timezone"`
	Currency    string `json:"currency"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type companyUsersResponse struct {
	Users []CompanyUser `json:"users"`
}

// GetCompanyInfo retrieves the company overview
func (c *Client) GetCompanyInfo() (*CompanyInfo, error) {
	resp, err := c.doRequest("GET", "/api/company/info", nil)
	if err != nil {
		return nil, err
	}

	var info CompanyInfo
	if err := parseResponse(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetCompanyUsers retrieves the company member list
func (c *Client) GetCompanyUsers() ([]CompanyUser, error) {
	resp, err := c.doRequest("GET", "/api/company/users", nil)
	if err != nil {
		return nil, err
	}

	var list companyUsersResponse
	if err := parseResponse(resp, &list); err != nil {
		return nil, err
	}
	return list.Users, nil
}

// AddCompanyUser adds a member to the company
func (c *Client) AddCompanyUser(user CompanyUserRequest) error {
	resp, err := c.doRequest("POST", "/api/company/users", user)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// UpdateCompanyUser updates an existing member
func (c *Client) UpdateCompanyUser(userID int64, user CompanyUserRequest) error {
	resp, err := c.doRequest("PATCH", fmt.Sprintf("/api/company/users/%d", userID), user)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// DeleteCompanyUser removes a member from the company
func (c *Client) DeleteCompanyUser(userID int64) error {
	resp, err := c.doRequest("DELETE", fmt.Sprintf("/api/company/users/%d", userID), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// UpdateCompanySettings saves the company settings and returns the
// updated overview as echoed by the server.
func (c *Client) UpdateCompanySettings(settings CompanySettings) (*CompanyInfo, error) {
	resp, err := c.doRequest("PATCH", "/api/company/settings", settings)
	if err != nil {
		return nil, err
	}

	var info CompanyInfo
	if err := parseResponse(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
