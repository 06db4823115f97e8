package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase"
)

type handlers struct {
	c      *app.Container
	logger *slog.Logger
}

// taskBody is the payload of create and edit requests. Absent fields are nil.
type taskBody struct {
	Title    *string `json:"title"`
	URL      *string `json:"url"`
	Priority *string `json:"priority"`
	Deadline *string `json:"deadline"`
	Type     *string `json:"type"`
	Energy   *string `json:"energy"`
}

type completeBody struct {
	Completed bool `json:"completed"`
}

type slotBody struct {
	Day     string `json:"day"`
	BlockID string `json:"blockId"`
}

type moveSlotBody struct {
	ToDay   string `json:"toDay"`
	ToBlock string `json:"toBlock"`
}

type scheduleBody struct {
	Slots []slotBody `json:"slots"`
}

type directionBody struct {
	Direction string `json:"direction"`
}

type orderBody struct {
	TaskIDs []string `json:"taskIds"`
}

type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	writeError(w, h.logger, err)
}

func (h *handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := usecase.ListTasksInput{
		HideCompleted: queryBool(r, "hideCompleted"),
		Unscheduled:   queryBool(r, "unscheduled"),
	}
	if v := q.Get("priority"); v != "" {
		p, err := domain.ParsePriority(v)
		if err != nil {
			h.fail(w, err)
			return
		}
		in.Priority = p
	}
	if v := q.Get("type"); v != "" {
		ty, err := domain.ParseTaskType(v)
		if err != nil {
			h.fail(w, err)
			return
		}
		in.Type = ty
	}
	out, err := h.c.ListTasksUseCase().Execute(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksResponse{Tasks: out.Tasks})
}

func (h *handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var body taskBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	in := usecase.CreateTaskInput{
		Title:    deref(body.Title),
		URL:      deref(body.URL),
		Deadline: deref(body.Deadline),
	}
	var err error
	if in.Priority, in.Type, in.Energy, err = parseEnums(body); err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.CreateTaskUseCase().Execute(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Task)
}

func (h *handlers) createTasksFromFile(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		h.fail(w, &domain.ValidationError{Field: "body", Err: err})
		return
	}
	out, err := h.c.CreateTasksFromFileUseCase().Execute(r.Context(), usecase.CreateTasksFromFileInput{
		Content: string(content),
		DryRun:  queryBool(r, "dryRun"),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tasksResponse{Tasks: out.Tasks})
}

func (h *handlers) showTask(w http.ResponseWriter, r *http.Request) {
	out, err := h.c.ShowTaskUseCase().Execute(r.Context(), usecase.ShowTaskInput{TaskID: chi.URLParam(r, "id")})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

// updateTask replaces the whole task. The id in the path wins over the body.
func (h *handlers) updateTask(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := decodeJSON(w, r, &task); err != nil {
		h.fail(w, err)
		return
	}
	task.ID = chi.URLParam(r, "id")
	if task.Schedule == nil {
		task.Schedule = []domain.Assignment{}
	}
	out, err := h.c.UpdateTaskUseCase().Execute(r.Context(), usecase.UpdateTaskInput{Task: task})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (h *handlers) editTask(w http.ResponseWriter, r *http.Request) {
	var body taskBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	in := usecase.EditTaskInput{
		TaskID:   chi.URLParam(r, "id"),
		Title:    body.Title,
		URL:      body.URL,
		Deadline: body.Deadline,
	}
	if body.Priority != nil {
		p, err := domain.ParsePriority(*body.Priority)
		if err != nil {
			h.fail(w, err)
			return
		}
		in.Priority = &p
	}
	if body.Type != nil {
		ty, err := domain.ParseTaskType(*body.Type)
		if err != nil {
			h.fail(w, err)
			return
		}
		in.Type = &ty
	}
	if body.Energy != nil {
		e, err := domain.ParseEnergy(*body.Energy)
		if err != nil {
			h.fail(w, err)
			return
		}
		in.Energy = &e
	}
	out, err := h.c.EditTaskUseCase().Execute(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (h *handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	out, err := h.c.DeleteTaskUseCase().Execute(r.Context(), usecase.DeleteTaskInput{TaskID: chi.URLParam(r, "id")})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (h *handlers) completeTask(w http.ResponseWriter, r *http.Request) {
	var body completeBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.CompleteTaskUseCase().Execute(r.Context(), usecase.CompleteTaskInput{
		TaskID:    chi.URLParam(r, "id"),
		Completed: body.Completed,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (h *handlers) swapTask(w http.ResponseWriter, r *http.Request) {
	var body directionBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	dir, err := domain.ParseDirection(body.Direction)
	if err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.SwapTaskUseCase().Execute(r.Context(), usecase.SwapTaskInput{TaskID: chi.URLParam(r, "id"), Direction: dir})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Result  domain.SwapResult `json:"result"`
		Changed []domain.Task     `json:"changed"`
	}{out.Result, out.Changed})
}

func (h *handlers) setSchedule(w http.ResponseWriter, r *http.Request) {
	var body scheduleBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	slots := make([]domain.Slot, 0, len(body.Slots))
	for _, s := range body.Slots {
		day, err := domain.ParseDay(s.Day)
		if err != nil {
			h.fail(w, err)
			return
		}
		slots = append(slots, domain.Slot{Day: day, BlockID: s.BlockID})
	}
	out, err := h.c.SetScheduleUseCase().Execute(r.Context(), usecase.SetScheduleInput{TaskID: chi.URLParam(r, "id"), Slots: slots})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (h *handlers) assignSlot(w http.ResponseWriter, r *http.Request) {
	var body slotBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	day, err := domain.ParseDay(body.Day)
	if err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.AssignSlotUseCase().Execute(r.Context(), usecase.AssignSlotInput{
		TaskID: chi.URLParam(r, "id"), Day: day, BlockID: body.BlockID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Task    *domain.Task `json:"task,omitempty"`
		Changed bool         `json:"changed"`
	}{out.Task, out.Changed})
}

// pathSlot reads the {day}/{block} path parameters.
func pathSlot(r *http.Request) (domain.Slot, error) {
	day, err := domain.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		return domain.Slot{}, err
	}
	return domain.Slot{Day: day, BlockID: chi.URLParam(r, "block")}, nil
}

func (h *handlers) unassignSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := pathSlot(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.UnassignSlotUseCase().Execute(r.Context(), usecase.UnassignSlotInput{
		TaskID: chi.URLParam(r, "id"), Day: slot.Day, BlockID: slot.BlockID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (h *handlers) completeAssignment(w http.ResponseWriter, r *http.Request) {
	slot, err := pathSlot(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	var body completeBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.CompleteAssignmentUseCase().Execute(r.Context(), usecase.CompleteAssignmentInput{
		TaskID: chi.URLParam(r, "id"), Day: slot.Day, BlockID: slot.BlockID, Completed: body.Completed,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (h *handlers) moveSlot(w http.ResponseWriter, r *http.Request) {
	from, err := pathSlot(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	var body moveSlotBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	toDay, err := domain.ParseDay(body.ToDay)
	if err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.MoveSlotUseCase().Execute(r.Context(), usecase.MoveSlotInput{
		TaskID:    chi.URLParam(r, "id"),
		FromDay:   from.Day,
		FromBlock: from.BlockID,
		ToDay:     toDay,
		ToBlock:   body.ToBlock,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Task    *domain.Task `json:"task,omitempty"`
		Changed bool         `json:"changed"`
	}{out.Task, out.Changed})
}

func (h *handlers) unassignAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.c.UnassignAllUseCase().Execute(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksResponse{Tasks: out.Tasks})
}

func (h *handlers) reorderLane(w http.ResponseWriter, r *http.Request) {
	lane, err := domain.ParsePriority(chi.URLParam(r, "lane"))
	if err != nil {
		h.fail(w, err)
		return
	}
	var body orderBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.ReorderLaneUseCase().Execute(r.Context(), usecase.ReorderLaneInput{Lane: lane, TaskIDs: body.TaskIDs})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksResponse{Tasks: out.Changed})
}

type weekEntry struct {
	BlockID   string `json:"blockId"`
	Label     string `json:"label"`
	Time      string `json:"time"`
	TaskID    string `json:"taskId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type weekDay struct {
	Day     domain.Day  `json:"day"`
	Entries []weekEntry `json:"entries"`
}

func (h *handlers) listWeek(w http.ResponseWriter, r *http.Request) {
	out, err := h.c.ListWeekUseCase().Execute(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	days := make([]weekDay, 0, len(out.Days))
	for _, d := range out.Days {
		wd := weekDay{Day: d.Day, Entries: []weekEntry{}}
		for _, e := range d.Entries {
			wd.Entries = append(wd.Entries, weekEntry{
				BlockID:   e.Block.ID,
				Label:     e.Block.Label,
				Time:      e.Block.Time,
				TaskID:    e.TaskID,
				Title:     e.Title,
				Completed: e.Completed,
			})
		}
		days = append(days, wd)
	}
	writeJSON(w, http.StatusOK, struct {
		Days []weekDay `json:"days"`
	}{days})
}

type blockBody struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Time     string          `json:"time"`
	Capacity domain.Capacity `json:"capacity"`
}

func (h *handlers) listBlocks(w http.ResponseWriter, _ *http.Request) {
	blocks := h.c.Grid.Catalog().Blocks()
	out := make([]blockBody, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockBody{ID: b.ID, Label: b.Label, Time: b.Time, Capacity: b.Capacity})
	}
	writeJSON(w, http.StatusOK, struct {
		Blocks []blockBody `json:"blocks"`
	}{out})
}

func (h *handlers) notifications(w http.ResponseWriter, _ *http.Request) {
	items := []domain.Notification{}
	if h.c.Recent != nil {
		items = h.c.Recent.Recent()
	}
	writeJSON(w, http.StatusOK, struct {
		Notifications []domain.Notification `json:"notifications"`
	}{items})
}

func parseEnums(body taskBody) (domain.Priority, domain.TaskType, domain.Energy, error) {
	var (
		p  domain.Priority
		ty domain.TaskType
		e  domain.Energy
	)
	var err error
	if v := deref(body.Priority); v != "" {
		if p, err = domain.ParsePriority(v); err != nil {
			return "", "", "", err
		}
	}
	if v := deref(body.Type); v != "" {
		if ty, err = domain.ParseTaskType(v); err != nil {
			return "", "", "", err
		}
	}
	if v := deref(body.Energy); v != "" {
		if e, err = domain.ParseEnergy(v); err != nil {
			return "", "", "", err
		}
	}
	return p, ty, e, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
