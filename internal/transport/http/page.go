package http

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/app"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/calendar"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/clock"
	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFiles, "templates/calendar.html"))

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// PageHandler renders the month-grid view and accepts the form-based
// add/delete writes behind it.
type PageHandler struct {
	svc   EventAdapter
	clock clock.Clock
}

func NewPageHandler(svc EventAdapter, clk clock.Clock) *PageHandler {
	return &PageHandler{svc: svc, clock: clk}
}

type dayCell struct {
	Day    int
	Today  bool
	Events []domain.Event
}

type pageData struct {
	Month         string
	Year          int
	MonthNumber   int
	PrevURL       string
	NextURL       string
	Weekdays      []string
	LeadingBlanks int
	Days          []dayCell
	DraftDate     string
	Status        string
}

// ServeCalendar renders GET /. The reference month comes from ?y=&m=;
// anything invalid falls back to the current month. The grid and the
// "today" highlight are recomputed on every render.
func (h *PageHandler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	now := h.clock.Now()
	month := referenceMonth(r, now)
	grid := calendar.NewGrid(month)
	snapshot := h.svc.Snapshot()

	days := make([]dayCell, 0, grid.DaysInMonth)
	for day := 1; day <= grid.DaysInMonth; day++ {
		days = append(days, dayCell{
			Day:    day,
			Today:  calendar.IsToday(month, day, now),
			Events: calendar.EventsForDay(snapshot, month, day),
		})
	}

	data := pageData{
		Month:         month.String(),
		Year:          month.Year,
		MonthNumber:   int(month.Month),
		PrevURL:       monthURL(month.Previous()),
		NextURL:       monthURL(month.Next()),
		Weekdays:      weekdayNames,
		LeadingBlanks: grid.LeadingBlanks,
		Days:          days,
		DraftDate:     calendar.DayKey(calendar.MonthOf(now), now.Day()),
		Status:        r.URL.Query().Get("status"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		// Too late for a clean error response once the body started.
		return
	}
}

// ServeAddEvent handles the entry form: POST /events with title and
// date fields, then redirect back to the month being viewed with a
// status message. The new event shows up only once the store pushes
// the next snapshot.
func (h *PageHandler) ServeAddEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid form body")
		return
	}

	_, err := h.svc.AddEvent(r.Context(), app.AddEventInput{
		Title: r.PostFormValue("title"),
		Date:  r.PostFormValue("date"),
	})
	h.redirectWithStatus(w, r, err, "Event added.")
}

// ServeDeleteEvent handles the per-event delete affordance:
// POST /events/{id}/delete, then redirect with a status message.
func (h *PageHandler) ServeDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := parseDeleteFormPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
		return
	}

	err := h.svc.DeleteEvent(r.Context(), id)
	h.redirectWithStatus(w, r, err, "Event deleted.")
}

func (h *PageHandler) redirectWithStatus(w http.ResponseWriter, r *http.Request, err error, success string) {
	status := success
	if err != nil {
		status = statusMessage(err)
	}

	values := url.Values{}
	if y := r.PostFormValue("y"); y != "" {
		values.Set("y", y)
	}
	if m := r.PostFormValue("m"); m != "" {
		values.Set("m", m)
	}
	values.Set("status", status)
	http.Redirect(w, r, "/?"+values.Encode(), http.StatusSeeOther)
}

// statusMessage keeps user-facing outcomes human-readable and
// deliberately generic for backend failures.
func statusMessage(err error) string {
	switch err {
	case domain.ErrSessionNotReady, domain.ErrTitleRequired, domain.ErrDateRequired,
		domain.ErrEventIDRequired, domain.ErrEventNotFound, domain.ErrInvalidID:
		return err.Error()
	default:
		return "something went wrong, please try again"
	}
}

func referenceMonth(r *http.Request, now time.Time) calendar.Month {
	q := r.URL.Query()
	year, errY := strconv.Atoi(q.Get("y"))
	monthNum, errM := strconv.Atoi(q.Get("m"))
	if errY != nil || errM != nil || monthNum < 1 || monthNum > 12 || year < 1 {
		return calendar.MonthOf(now)
	}
	return calendar.Month{Year: year, Month: time.Month(monthNum)}
}

func monthURL(m calendar.Month) string {
	return "/?" + monthQuery(m)
}

func monthQuery(m calendar.Month) string {
	values := url.Values{}
	values.Set("y", strconv.Itoa(m.Year))
	values.Set("m", strconv.Itoa(int(m.Month)))
	return values.Encode()
}

func parseDeleteFormPath(path string) (string, bool) {
	parts := splitPath(path)
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "events" || parts[1] == "" || parts[2] != "delete" {
		return "", false
	}
	return parts[1], true
}
