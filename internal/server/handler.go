package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

// Handler serves one user's weeks to the web console.
type Handler struct {
	sheet  *timesheet.Sheet
	userID int64
	today  func() model.Date
}

func NewHandler(sheet *timesheet.Sheet, userID int64, today func() model.Date) *Handler {
	return &Handler{sheet: sheet, userID: userID, today: today}
}

type weekView struct {
	UserID        int64                    `json:"userId"`
	WeekStart     model.Date               `json:"weekStart"`
	WeekEnd       model.Date               `json:"weekEnd"`
	Label         string                   `json:"label"`
	Days          []timesheet.DayAggregate `json:"days"`
	Projects      []model.Project          `json:"projects"`
	Problems      []timesheet.Problem      `json:"problems"`
	WorkedHours   float64                  `json:"workedHours"`
	OvertimeHours float64                  `json:"overtimeHours"`
	LoadedAt      time.Time                `json:"loadedAt"`
}

func viewOf(w *timesheet.Week) weekView {
	worked, overtime := w.TotalHours()
	problems := w.Problems()
	if problems == nil {
		problems = []timesheet.Problem{}
	}
	projects := w.Projects()
	if projects == nil {
		projects = []model.Project{}
	}
	return weekView{
		UserID:        w.UserID,
		WeekStart:     w.Window.Start(),
		WeekEnd:       w.Window.End(),
		Label:         w.Window.Label(),
		Days:          w.Days(),
		Projects:      projects,
		Problems:      problems,
		WorkedHours:   worked,
		OvertimeHours: overtime,
		LoadedAt:      w.LoadedAt(),
	}
}

type entryRequest struct {
	Date          model.Date         `json:"date"`
	ProjectID     int64              `json:"projectId"`
	Hours         float64            `json:"hours"`
	WorkLocation  model.WorkLocation `json:"workLocation"`
	Description   string             `json:"description"`
	RegisterLeave bool               `json:"registerLeave"`
}

func (e entryRequest) input() timesheet.EntryInput {
	return timesheet.EntryInput{
		Date:         e.Date,
		ProjectID:    e.ProjectID,
		Hours:        e.Hours,
		WorkLocation: e.WorkLocation,
		Description:  e.Description,
	}
}

// prompter registers the shortfall as leave only when the request asks for it.
func (e entryRequest) prompter() timesheet.Prompter {
	if !e.RegisterLeave {
		return nil
	}
	return timesheet.AlwaysPrompt(true)
}

type leaveRequest struct {
	Hours float64 `json:"hours"`
}

// week resolves the week containing the date given in raw, or today.
func (h *Handler) week(r *http.Request, raw string) (*timesheet.Week, model.Date, error) {
	d := h.today()
	if raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			return nil, model.Date{}, timesheet.ValidationErrors{"date": "must be a YYYY-MM-DD date"}
		}
		d = parsed
	}
	w, err := h.sheet.Week(r.Context(), h.userID, d)
	return w, d, err
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	week, _, err := h.week(r, r.URL.Query().Get("date"))
	if err != nil {
		handleError(w, err)
		return
	}
	success(w, viewOf(week))
}

func (h *Handler) ReloadWeek(w http.ResponseWriter, r *http.Request) {
	week, _, err := h.week(r, r.URL.Query().Get("date"))
	if err != nil {
		handleError(w, err)
		return
	}
	if err := week.Reload(r.Context()); err != nil {
		handleError(w, err)
		return
	}
	success(w, viewOf(week))
}

func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request format: "+err.Error())
		return
	}
	week, day, err := h.week(r, chi.URLParam(r, "date"))
	if err != nil {
		handleError(w, err)
		return
	}
	req.Date = day
	res, err := week.AddEntry(r.Context(), req.input(), req.prompter())
	if err != nil {
		handleError(w, err)
		return
	}
	created(w, res)
}

func (h *Handler) EditEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "Entry ID must be a positive number")
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request format: "+err.Error())
		return
	}
	week, _, err := h.week(r, r.URL.Query().Get("date"))
	if err != nil {
		handleError(w, err)
		return
	}
	res, err := week.EditEntry(r.Context(), id, req.input(), req.prompter())
	if err != nil {
		handleError(w, err)
		return
	}
	success(w, res)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "Entry ID must be a positive number")
		return
	}
	week, _, err := h.week(r, r.URL.Query().Get("date"))
	if err != nil {
		handleError(w, err)
		return
	}
	if err := week.DeleteEntry(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	success(w, viewOf(week))
}

func (h *Handler) RegisterLeave(w http.ResponseWriter, r *http.Request) {
	var req leaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request format: "+err.Error())
		return
	}
	week, day, err := h.week(r, chi.URLParam(r, "date"))
	if err != nil {
		handleError(w, err)
		return
	}
	res, err := week.RegisterLeave(r.Context(), day, req.Hours)
	if err != nil {
		handleError(w, err)
		return
	}
	created(w, res)
}

func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		badRequest(w, "Leave ID must be a positive number")
		return
	}
	week, _, err := h.week(r, r.URL.Query().Get("date"))
	if err != nil {
		handleError(w, err)
		return
	}
	if err := week.CancelLeave(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	success(w, viewOf(week))
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	week, _, err := h.week(r, "")
	if err != nil {
		handleError(w, err)
		return
	}
	projects := week.Projects()
	if projects == nil {
		projects = []model.Project{}
	}
	success(w, projects)
}
