package respond

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

// Date is a calendar day encoded as "2006-01-02" in JSON.
type Date time.Time

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("date %q must look like 2006-01-02", s)
	}

	*d = Date(t)

	return nil
}

// DatePtr converts an optional Date into an optional time.Time.
func DatePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}

	return new(d.Time())
}

// Query parses optional query parameters, keeping the first error.
type Query struct {
	r   *http.Request
	err error
}

func NewQuery(r *http.Request) *Query {
	return &Query{r: r}
}

func (q *Query) Err() error {
	return q.err
}

func (q *Query) fail(name, reason string) {
	if q.err == nil {
		q.err = apperr.Invalid(name, reason)
	}
}

func (q *Query) String(name string) string {
	return strings.TrimSpace(q.r.URL.Query().Get(name))
}

func (q *Query) Date(name string) *time.Time {
	s := q.String(name)
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		q.fail(name, "must look like 2006-01-02")
		return nil
	}

	return &t
}

func (q *Query) Int(name string) *int {
	s := q.String(name)
	if s == "" {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		q.fail(name, "must be an integer")
		return nil
	}

	return &n
}

// RequiredInt is Int for parameters that must be present.
func (q *Query) RequiredInt(name string) int {
	n := q.Int(name)
	if n == nil {
		q.fail(name, "required")
		return 0
	}

	return *n
}

func (q *Query) UUID(name string) *uuid.UUID {
	s := q.String(name)
	if s == "" {
		return nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		q.fail(name, "must be a UUID")
		return nil
	}

	return &id
}

func (q *Query) Bool(name string) *bool {
	s := q.String(name)
	if s == "" {
		return nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		q.fail(name, "must be true or false")
		return nil
	}

	return &b
}
