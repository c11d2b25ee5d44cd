package tools

import (
	"errors"
	"fmt"
	"strings"
	"time"
	// embedded zoneinfo so lookups work on minimal images
	_ "time/tzdata"

	"github.com/hasdev/api-gateway/pkg/gwerr"
)

var ErrInvalidTimezone = errors.New("invalid timezone")

type TimeInfo struct {
	Timezone  string
	Datetime  string
	Date      string
	Time      string
	Unix      int64
	Offset    int
	Time12Hr  string
	Time24Hr  string
	DayOfWeek int
	DayOfYear int
}

type Clock struct {
	now func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// WithNow replaces the clock's time source.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	c.now = now
	return c
}

// In describes the current instant in the IANA zone name. An empty zone
// means UTC.
func (c *Clock) In(zone string) (*TimeInfo, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		zone = "UTC"
	}
	// "Local" would expose the server's zone
	if strings.EqualFold(zone, "local") {
		return nil, invalidZone(zone)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, invalidZone(zone)
	}

	now := c.now().In(loc)
	_, offset := now.Zone()

	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	// only UTC itself is written as "Z"; named zones at +00:00 keep the offset
	zoneLayout := "-07:00"
	if loc == time.UTC {
		zoneLayout = "Z07:00"
	}

	return &TimeInfo{
		Timezone:  loc.String(),
		Datetime:  now.Format("2006-01-02T15:04:05.000" + zoneLayout),
		Date:      now.Format(time.DateOnly),
		Time:      now.Format("15:04:05" + zoneLayout),
		Unix:      now.Unix(),
		Offset:    offset / 60,
		Time12Hr:  now.Format("03:04 PM"),
		Time24Hr:  now.Format("15:04"),
		DayOfWeek: weekday,
		DayOfYear: now.YearDay(),
	}, nil
}

func invalidZone(zone string) error {
	return gwerr.New(gwerr.CodeInvalidInput, fmt.Errorf("%w: %s", ErrInvalidTimezone, zone))
}
