package platform

// RegisterRequest is the signup payload
type RegisterRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued on login.
// Token may be empty on a malformed success response; callers must
// treat that as a failed login, not store it.
type LoginResponse struct {
	Token string `json:"token"`
}

// Identity is the current user as reported by the platform
type Identity struct {
	UserID      int64  `json:"user_id"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"is_admin"`
}

// ConnectResponse carries the QuickBooks OAuth URL
type ConnectResponse struct {
	AuthURL string `json:"auth_url"`
}

// Register creates a new account. No token is issued; the caller is
// expected to log in afterward.
func (c *Client) Register(companyName, email, password string) error {
	resp, err := c.doRequest("POST", "/api/users/register", RegisterRequest{
		CompanyName: companyName,
		Email:       email,
		Password:    password,
	})
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// Login authenticates and returns the token response. It does NOT set
// the client token: the caller decides whether the response actually
// contains a token before committing it anywhere.
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	resp, err := c.doRequest("POST", "/api/users/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := parseResponse(resp, &loginResp); err != nil {
		return nil, err
	}
	return &loginResp, nil
}

// CurrentUser retrieves the authenticated user's identity
func (c *Client) CurrentUser() (*Identity, error) {
	resp, err := c.doRequest("GET", "/api/users/me", nil)
	if err != nil {
		return nil, err
	}

	var me Identity
	if err := parseResponse(resp, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// QBConnectURL retrieves the QuickBooks OAuth authorization URL
func (c *Client) QBConnectURL() (string, error) {
	resp, err := c.doRequest("GET", "/api/qb/connect", nil)
	if err != nil {
		return "", err
	}

	var connect ConnectResponse
	if err := parseResponse(resp, &connect); err != nil {
		return "", err
	}
	return connect.AuthURL, nil
}
