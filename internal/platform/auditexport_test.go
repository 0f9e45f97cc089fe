package platform

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAuditCSVFormat(t *testing.T) {
	events := []AuditEvent{
		{Timestamp: "2026-08-02T10:00:00Z", UserEmail: "pat@grace.org", Action: "settings_updated", Details: `changed "currency"`},
		{CreatedAt: "2026-08-01 09:30:00", UserEmail: "sam@grace.org", Action: "login", Details: ""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAuditCSV(&buf, events))
	out := buf.Bytes()

	// Excel needs the BOM to detect UTF-8.
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSuffix(string(out[3:]), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Timestamp","User Email","Action","Details"`, lines[0])
	assert.Equal(t, `"2026-08-02T10:00:00Z","pat@grace.org","settings_updated","changed ""currency"""`, lines[1])
	assert.Equal(t, `"2026-08-01 09:30:00","sam@grace.org","login",""`, lines[2])
	assert.NotContains(t, string(out), "\n\"T", "rows end with CRLF, not bare LF")
}

func TestAuditExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "audit_log_2026-08-30.csv", AuditExportFilename(now))
}
