package platform

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// auditCSVHeader is the column order of an audit log export.
var auditCSVHeader = []string{"Timestamp", "User Email", "Action", "Details"}

// AuditExportFilename returns the export file name for the given day,
// e.g. audit_log_2026-08-30.csv.
func AuditExportFilename(now time.Time) string {
	return fmt.Sprintf("audit_log_%s.csv", now.Format("2006-01-02"))
}

// WriteAuditCSV writes events as spreadsheet-friendly CSV: a UTF-8
// BOM so Excel detects the encoding, CRLF line endings, and every
// field quoted regardless of content.
func WriteAuditCSV(w io.Writer, events []AuditEvent) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	if err := writeAuditCSVRow(w, auditCSVHeader); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{e.Shown(), e.UserEmail, e.Action, e.Details}
		if err := writeAuditCSVRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

func writeAuditCSVRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\r\n")
	return err
}
