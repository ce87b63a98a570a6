package service

import (
	"errors"
	"sort"
	"time"

	"clerkrota/backend/internal/model"
)

// ErrInvalidWindow is the only fatal construction error for a context.
var ErrInvalidWindow = errors.New("window end is before window start")

type pairKey struct {
	StudentID   string
	ClerkshipID string
}

type preceptorDateKey struct {
	PreceptorID string
	Date        time.Time
}

type studentDateKey struct {
	StudentID string
	Date      time.Time
}

// ContextInput carries every fact a planning operation needs. The builder
// does no I/O of its own; callers load these from their own providers.
type ContextInput struct {
	Students     []model.Student
	Preceptors   []model.Preceptor
	Clerkships   []model.Clerkship
	Availability []model.AvailabilityRecord
	Blackouts    []model.BlackoutDate
	// Assignments inside the planning window. Records outside
	// [WindowStart, WindowEnd] are dropped by the builder.
	Assignments []model.Assignment
	WindowStart time.Time
	WindowEnd   time.Time
}

// SchedulingContext is an immutable snapshot of scheduling facts over a date
// window. Two planning operations must never share one; build a fresh
// context per operation so one caller's assumptions cannot leak into
// another's decision.
type SchedulingContext struct {
	windowStart time.Time
	windowEnd   time.Time

	students   map[string]model.Student
	preceptors map[string]model.Preceptor
	clerkships map[string]model.Clerkship

	availability map[preceptorDateKey]bool // explicit records only
	blackouts    map[time.Time]struct{}

	assignments     []model.Assignment // window assignments, date asc then id asc
	byStudentDate   map[studentDateKey][]string
	byPreceptorDate map[preceptorDateKey][]string

	// remaining required days per (student, clerkship); seeded from the
	// clerkship requirement, reduced only by an explicit history credit.
	remaining map[pairKey]int
	credited  map[pairKey]int
}

// BuildContext assembles a snapshot. Pure function of its inputs: the only
// error is a malformed window; every other input is trusted as validated by
// its owning subsystem.
func BuildContext(in ContextInput) (*SchedulingContext, error) {
	start := model.DateOnly(in.WindowStart)
	end := model.DateOnly(in.WindowEnd)
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}

	sc := &SchedulingContext{
		windowStart:     start,
		windowEnd:       end,
		students:        make(map[string]model.Student, len(in.Students)),
		preceptors:      make(map[string]model.Preceptor, len(in.Preceptors)),
		clerkships:      make(map[string]model.Clerkship, len(in.Clerkships)),
		availability:    make(map[preceptorDateKey]bool, len(in.Availability)),
		blackouts:       make(map[time.Time]struct{}, len(in.Blackouts)),
		byStudentDate:   make(map[studentDateKey][]string),
		byPreceptorDate: make(map[preceptorDateKey][]string),
		remaining:       make(map[pairKey]int),
		credited:        make(map[pairKey]int),
	}

	for _, s := range in.Students {
		sc.students[s.StudentID] = s
	}
	for _, p := range in.Preceptors {
		sc.preceptors[p.PreceptorID] = p
	}
	for _, c := range in.Clerkships {
		sc.clerkships[c.ClerkshipID] = c
	}
	for _, a := range in.Availability {
		key := preceptorDateKey{a.PreceptorID, model.DateOnly(a.Date)}
		sc.availability[key] = a.Available
	}
	for _, b := range in.Blackouts {
		sc.blackouts[model.DateOnly(b.Date)] = struct{}{}
	}

	for _, a := range in.Assignments {
		date := model.DateOnly(a.RotationDate)
		if date.Before(start) || date.After(end) {
			continue
		}
		a.RotationDate = date
		sc.assignments = append(sc.assignments, a)
	}
	sort.Slice(sc.assignments, func(i, j int) bool {
		ai, aj := sc.assignments[i], sc.assignments[j]
		if !ai.RotationDate.Equal(aj.RotationDate) {
			return ai.RotationDate.Before(aj.RotationDate)
		}
		return ai.AssignmentID < aj.AssignmentID
	})
	for _, a := range sc.assignments {
		sKey := studentDateKey{a.StudentID, a.RotationDate}
		pKey := preceptorDateKey{a.PreceptorID, a.RotationDate}
		sc.byStudentDate[sKey] = append(sc.byStudentDate[sKey], a.AssignmentID)
		sc.byPreceptorDate[pKey] = append(sc.byPreceptorDate[pKey], a.AssignmentID)
	}

	// Seed remaining requirement for every (student, clerkship) pair.
	// History credit is explicit and separate (ApplyHistoryCredit).
	for sid := range sc.students {
		for cid, c := range sc.clerkships {
			sc.remaining[pairKey{sid, cid}] = c.RequiredDays
		}
	}

	return sc, nil
}

// ApplyHistoryCredit returns a new context whose remaining requirements are
// reduced by the given historical assignments, floored at zero. The receiver
// is not modified; crediting twice from the same history onto the same base
// context always yields the same numbers.
func (sc *SchedulingContext) ApplyHistoryCredit(history []model.Assignment) *SchedulingContext {
	out := *sc
	out.remaining = make(map[pairKey]int, len(sc.remaining))
	for k, v := range sc.remaining {
		out.remaining[k] = v
	}
	out.credited = make(map[pairKey]int, len(sc.credited))
	for k, v := range sc.credited {
		out.credited[k] = v
	}

	for _, a := range history {
		key := pairKey{a.StudentID, a.ClerkshipID}
		out.credited[key]++
		if rem, ok := out.remaining[key]; ok && rem > 0 {
			out.remaining[key] = rem - 1
		}
	}
	return &out
}

// ── Read accessors ──

// Window returns the planning window bounds (inclusive, day granularity).
func (sc *SchedulingContext) Window() (start, end time.Time) {
	return sc.windowStart, sc.windowEnd
}

func (sc *SchedulingContext) Student(id string) (model.Student, bool) {
	s, ok := sc.students[id]
	return s, ok
}

func (sc *SchedulingContext) Preceptor(id string) (model.Preceptor, bool) {
	p, ok := sc.preceptors[id]
	return p, ok
}

func (sc *SchedulingContext) Clerkship(id string) (model.Clerkship, bool) {
	c, ok := sc.clerkships[id]
	return c, ok
}

// PreceptorIDs returns every preceptor ID in ascending order, so planning
// iteration is deterministic.
func (sc *SchedulingContext) PreceptorIDs() []string {
	ids := make([]string, 0, len(sc.preceptors))
	for id := range sc.preceptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Availability returns the explicit availability state for (preceptor, date).
// No record means Unset, which the validator treats as available.
func (sc *SchedulingContext) Availability(preceptorID string, date time.Time) model.AvailabilityState {
	avail, ok := sc.availability[preceptorDateKey{preceptorID, model.DateOnly(date)}]
	switch {
	case !ok:
		return model.AvailabilityUnset
	case avail:
		return model.AvailabilityAvailable
	default:
		return model.AvailabilityUnavailable
	}
}

func (sc *SchedulingContext) IsBlackout(date time.Time) bool {
	_, ok := sc.blackouts[model.DateOnly(date)]
	return ok
}

// StudentBusy reports whether the student already has an assignment on the
// date, ignoring excludeID (the record an update is replacing).
func (sc *SchedulingContext) StudentBusy(studentID string, date time.Time, excludeID string) bool {
	for _, id := range sc.byStudentDate[studentDateKey{studentID, model.DateOnly(date)}] {
		if id != excludeID {
			return true
		}
	}
	return false
}

// PreceptorLoad counts assignments on (preceptor, date), ignoring excludeID.
func (sc *SchedulingContext) PreceptorLoad(preceptorID string, date time.Time, excludeID string) int {
	load := 0
	for _, id := range sc.byPreceptorDate[preceptorDateKey{preceptorID, model.DateOnly(date)}] {
		if id != excludeID {
			load++
		}
	}
	return load
}

// AssignmentsFrom returns copies of window assignments with date >= from,
// ordered by date then ID.
func (sc *SchedulingContext) AssignmentsFrom(from time.Time) []model.Assignment {
	from = model.DateOnly(from)
	var out []model.Assignment
	for _, a := range sc.assignments {
		if !a.RotationDate.Before(from) {
			out = append(out, a)
		}
	}
	return out
}

// RemainingDays returns the (possibly credit-adjusted) remaining requirement
// for a (student, clerkship) pair.
func (sc *SchedulingContext) RemainingDays(studentID, clerkshipID string) int {
	return sc.remaining[pairKey{studentID, clerkshipID}]
}

// CreditedDays returns how many historical days were credited to the pair.
func (sc *SchedulingContext) CreditedDays(studentID, clerkshipID string) int {
	return sc.credited[pairKey{studentID, clerkshipID}]
}

// CreditedPairs returns every (student, clerkship) pair with at least one
// credited day, sorted for deterministic reporting.
func (sc *SchedulingContext) CreditedPairs() [][2]string {
	pairs := make([][2]string, 0, len(sc.credited))
	for k := range sc.credited {
		pairs = append(pairs, [2]string{k.StudentID, k.ClerkshipID})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}
