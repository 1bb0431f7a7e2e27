// Package export renders registrations as CSV.
package export

import (
	"bufio"
	"io"
	"strings"
	"time"

	"eventplanner/internal/model"
)

const (
	ContentType = "text/csv"
	Filename    = "event-registrations.csv"

	dateLayout      = "2006-01-02"
	submittedLayout = "2006-01-02 15:04:05"
)

var Header = []string{
	"Full Name",
	"Email",
	"Event Date",
	"Event Name",
	"Category",
	"College",
	"Department",
	"Submitted",
}

// WriteRegistrations writes the header and one CRLF terminated line per
// registration. Dates are formatted in loc.
func WriteRegistrations(w io.Writer, regs []model.Registration, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	bw := bufio.NewWriter(w)

	if err := writeLine(bw, Header); err != nil {
		return err
	}
	for _, r := range regs {
		line := []string{
			r.FullName,
			r.Email,
			time.Unix(r.EventDate, 0).In(loc).Format(dateLayout),
			r.EventName,
			r.Category,
			r.CollegeName,
			r.Department,
			time.Unix(r.Created, 0).In(loc).Format(submittedLayout),
		}
		if err := writeLine(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(Escape(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// Escape quotes a field containing a comma, quote or newline and doubles
// embedded quotes. Other fields are returned unchanged.
func Escape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
