package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value holding a calendar date given as YYYY-MM-DD.
// Dates are interpreted at midnight UTC.
type dateValue struct {
	t *time.Time
}

var _ pflag.Value = dateValue{}

func newDateValue(p *time.Time) dateValue {
	return dateValue{t: p}
}

func (d dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format(formatter.DateLayout)
}

func (d dateValue) Set(s string) error {
	parsed, err := parseDate(s)
	if err != nil {
		return err
	}
	*d.t = parsed
	return nil
}

func (d dateValue) Type() string { return "date" }

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(formatter.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// dateVar registers a date flag on fs.
func dateVar(fs *pflag.FlagSet, p *time.Time, name, usage string) {
	fs.Var(newDateValue(p), name, usage)
}
