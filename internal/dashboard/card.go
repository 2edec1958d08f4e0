package dashboard

import (
	"math"
	"strconv"
	"time"
)

// DaysOfWeek labels forecast days, Monday first.
var DaysOfWeek = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayView is one rendered forecast day on a card.
type DayView struct {
	Label     string `json:"label"`
	Date      string `json:"date"`
	IconClass string `json:"iconClass"`
	Title     string `json:"title"`
	High      int    `json:"high"`
	Low       int    `json:"low"`
}

// CardView is the rendered content of one city card.
type CardView struct {
	Key           string    `json:"key"`
	Location      string    `json:"location"`
	LastUpdated   string    `json:"lastUpdated"`
	Description   string    `json:"description"`
	Date          string    `json:"date"`
	IconClass     string    `json:"iconClass"`
	Temperature   int       `json:"temperature"`
	Sunrise       string    `json:"sunrise"`
	Sunset        string    `json:"sunset"`
	Humidity      string    `json:"humidity"`
	WindSpeed     int       `json:"windSpeed"`
	WindDirection string    `json:"windDirection"`
	Days          []DayView `json:"days"`
}

// CardState tracks what a card has displayed.
// A zero LastRenderedAt means nothing has been rendered yet.
type CardState struct {
	Key            string
	LastRenderedAt time.Time
}

// Rendered reports whether the card has shown any record.
func (s CardState) Rendered() bool {
	return !s.LastRenderedAt.IsZero()
}

// ViewFactory builds a fresh, empty view for a city the first time it is shown.
type ViewFactory func(key, label string) *CardView

// NewCardView is the default ViewFactory.
func NewCardView(key, label string) *CardView {
	return &CardView{
		Key:      key,
		Location: label,
	}
}

func (v *CardView) clone() CardView {
	out := *v
	out.Days = append([]DayView(nil), v.Days...)
	return out
}

// Round rounds half up to the nearest whole unit: 42.5 -> 43, -2.5 -> -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// FormatPercent renders a rounded percentage, e.g. "79%".
func FormatPercent(x float64) string {
	return strconv.Itoa(Round(x)) + "%"
}

// WeekdayIndex converts a time.Weekday (Sunday = 0) to a Monday-first index.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// DayLabel returns the label for forecast offset i when today has index todayIndex.
func DayLabel(i, todayIndex int) string {
	return DaysOfWeek[(i+todayIndex)%7]
}
