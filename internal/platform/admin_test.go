package platform

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminEndpointsDecodeBareArrays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/users":
			w.Write([]byte(`[{"id":1,"name":"Grace Chapel","email":"o@grace.org","plan":"growth","role":"Owner"}]`))
		case "/api/admin/payments":
			w.Write([]byte(`[{"id":9,"email":"o@grace.org","provider":"stripe","plan":"growth","monthly_fee":49.5,"status":"failed","last_payment_date":"2026-07-30","next_payment_due":"2026-08-30"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	users, err := client.GetAdminUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Owner", users[0].Role)

	payments, err := client.GetPayments()
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 49.5, payments[0].MonthlyFee)
	assert.Equal(t, "failed", payments[0].Status)
}

func TestRunJobPostsJobName(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Write([]byte(`{"status":"started"}`))
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL).RunJob("daily_sync"))
	assert.Equal(t, "/api/admin/run_job", gotPath)
	assert.Equal(t, "daily_sync", gotBody["job"])
}

func TestRetryPaymentUsesIDPath(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL).RetryPayment(1041))
	assert.Equal(t, "/api/admin/payments/retry/1041", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
}
