package dashboard

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// IconMapper maps a condition code to an icon class.
type IconMapper func(code int) (string, bool)

// Clock abstracts local time so day labels are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock (local time).
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type card struct {
	state CardState
	view  *CardView
}

// Reconciler maps city keys to cards and decides whether incoming records
// supersede what is displayed. It is not safe for concurrent use.
type Reconciler struct {
	cards   map[string]*card
	order   []string
	newView ViewFactory
	icons   IconMapper
	clock   Clock
	loading bool
}

// NewReconciler creates a Reconciler in the loading state.
// Nil arguments fall back to NewCardView, weather.IconClass and SystemClock.
func NewReconciler(newView ViewFactory, icons IconMapper, clock Clock) *Reconciler {
	if newView == nil {
		newView = NewCardView
	}
	if icons == nil {
		icons = weather.IconClass
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Reconciler{
		cards:   make(map[string]*card),
		newView: newView,
		icons:   icons,
		clock:   clock,
		loading: true,
	}
}

// Apply renders rec onto its card, creating the card on first sight.
// It returns false when rec is not newer than what the card already shows.
func (r *Reconciler) Apply(rec weather.ForecastRecord) bool {
	c, ok := r.cards[rec.Key]
	if !ok {
		c = &card{
			state: CardState{Key: rec.Key},
			view:  r.newView(rec.Key, rec.Label),
		}
		r.cards[rec.Key] = c
		r.order = append(r.order, rec.Key)
	}

	if c.state.Rendered() && !rec.CreatedAt.After(c.state.LastRenderedAt) {
		return false
	}
	c.state.LastRenderedAt = rec.CreatedAt

	r.render(c.view, rec)

	r.loading = false
	return true
}

func (r *Reconciler) render(v *CardView, rec weather.ForecastRecord) {
	stamp := rec.CreatedAt.Format(weather.TimestampLayout)

	v.LastUpdated = stamp
	v.Description = rec.Current.ConditionText
	v.Date = stamp
	v.IconClass = r.iconClass(rec.Current.ConditionCode)
	v.Temperature = Round(rec.Current.TempF)
	v.Sunrise = rec.Sunrise
	v.Sunset = rec.Sunset
	v.Humidity = FormatPercent(rec.Current.HumidityPct)
	v.WindSpeed = Round(rec.Current.WindMph)
	v.WindDirection = rec.Current.WindDir

	today := WeekdayIndex(r.clock.Now().Weekday())
	v.Days = v.Days[:0]
	for i, d := range rec.Days {
		if i >= weather.MaxForecastDays {
			break
		}
		v.Days = append(v.Days, DayView{
			Label:     DayLabel(i, today),
			Date:      d.Date,
			IconClass: r.iconClass(d.ConditionCode),
			Title:     d.ConditionText,
			High:      Round(d.MaxTempF),
			Low:       Round(d.MinTempF),
		})
	}
}

func (r *Reconciler) iconClass(code int) string {
	c, _ := r.icons(code)
	return c
}

// Loading reports whether no record has been rendered yet.
func (r *Reconciler) Loading() bool {
	return r.loading
}

// Keys returns card keys in creation order.
func (r *Reconciler) Keys() []string {
	return append([]string(nil), r.order...)
}

// State returns the card state for key.
func (r *Reconciler) State(key string) (CardState, bool) {
	c, ok := r.cards[key]
	if !ok {
		return CardState{}, false
	}
	return c.state, true
}

// Cards returns copies of all card views in creation order.
func (r *Reconciler) Cards() []CardView {
	out := make([]CardView, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.cards[k].view.clone())
	}
	return out
}
