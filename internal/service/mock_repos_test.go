package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clerkrota/backend/internal/model"
	"clerkrota/backend/internal/repository"
	pkgerrors "clerkrota/backend/pkg/errors"
)

// In-memory repository fakes. They reproduce the store behaviors the
// services depend on: gorm.ErrRecordNotFound on misses, gorm.ErrDuplicatedKey
// on the (student, rotation_date) unique index, and optimistic-lock failures
// on version mismatches.

func newMockRepos() *repository.Repository {
	return &repository.Repository{
		Student:      &mockStudentRepo{items: map[string]model.Student{}},
		Site:         &mockSiteRepo{items: map[string]model.Site{}},
		Preceptor:    &mockPreceptorRepo{items: map[string]model.Preceptor{}},
		Clerkship:    &mockClerkshipRepo{items: map[string]model.Clerkship{}},
		Assignment:   &mockAssignmentRepo{items: map[string]model.Assignment{}},
		Availability: &mockAvailabilityRepo{items: map[string]model.AvailabilityRecord{}},
		Blackout:     &mockBlackoutRepo{items: map[time.Time]model.BlackoutDate{}},
	}
}

// ── Students ──

type mockStudentRepo struct {
	items map[string]model.Student
}

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	if s.StudentID == "" {
		s.StudentID = uuid.New().String()
	}
	m.items[s.StudentID] = *s
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (m *mockStudentRepo) List(_ context.Context) ([]model.Student, error) {
	out := make([]model.Student, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (m *mockStudentRepo) Update(_ context.Context, s *model.Student) error {
	m.items[s.StudentID] = *s
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// ── Sites ──

type mockSiteRepo struct {
	items map[string]model.Site
}

func (m *mockSiteRepo) Create(_ context.Context, s *model.Site) error {
	if s.SiteID == "" {
		s.SiteID = uuid.New().String()
	}
	m.items[s.SiteID] = *s
	return nil
}

func (m *mockSiteRepo) GetByID(_ context.Context, id string) (*model.Site, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (m *mockSiteRepo) List(_ context.Context) ([]model.Site, error) {
	out := make([]model.Site, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SiteID < out[j].SiteID })
	return out, nil
}

func (m *mockSiteRepo) Update(_ context.Context, s *model.Site) error {
	m.items[s.SiteID] = *s
	return nil
}

func (m *mockSiteRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// ── Preceptors ──

type mockPreceptorRepo struct {
	items map[string]model.Preceptor
}

func (m *mockPreceptorRepo) Create(_ context.Context, p *model.Preceptor) error {
	if p.PreceptorID == "" {
		p.PreceptorID = uuid.New().String()
	}
	m.items[p.PreceptorID] = *p
	return nil
}

func (m *mockPreceptorRepo) GetByID(_ context.Context, id string) (*model.Preceptor, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *mockPreceptorRepo) List(_ context.Context) ([]model.Preceptor, error) {
	out := make([]model.Preceptor, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PreceptorID < out[j].PreceptorID })
	return out, nil
}

func (m *mockPreceptorRepo) Update(_ context.Context, p *model.Preceptor) error {
	m.items[p.PreceptorID] = *p
	return nil
}

func (m *mockPreceptorRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// ── Clerkships ──

type mockClerkshipRepo struct {
	items map[string]model.Clerkship
}

func (m *mockClerkshipRepo) Create(_ context.Context, c *model.Clerkship) error {
	if c.ClerkshipID == "" {
		c.ClerkshipID = uuid.New().String()
	}
	m.items[c.ClerkshipID] = *c
	return nil
}

func (m *mockClerkshipRepo) GetByID(_ context.Context, id string) (*model.Clerkship, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (m *mockClerkshipRepo) List(_ context.Context) ([]model.Clerkship, error) {
	out := make([]model.Clerkship, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClerkshipID < out[j].ClerkshipID })
	return out, nil
}

func (m *mockClerkshipRepo) Update(_ context.Context, c *model.Clerkship) error {
	m.items[c.ClerkshipID] = *c
	return nil
}

func (m *mockClerkshipRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// ── Assignments ──

type mockAssignmentRepo struct {
	items map[string]model.Assignment
	// duplicateOnce makes the next Create fail with gorm.ErrDuplicatedKey
	// exactly once, simulating a concurrent writer beating the unique index.
	duplicateOnce bool
}

func (m *mockAssignmentRepo) hasStudentDate(studentID string, date time.Time, excludeID string) bool {
	for id, a := range m.items {
		if id == excludeID {
			continue
		}
		if a.StudentID == studentID && a.RotationDate.Equal(model.DateOnly(date)) {
			return true
		}
	}
	return false
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if m.duplicateOnce {
		m.duplicateOnce = false
		return gorm.ErrDuplicatedKey
	}
	a.RotationDate = model.DateOnly(a.RotationDate)
	if m.hasStudentDate(a.StudentID, a.RotationDate, "") {
		return gorm.ErrDuplicatedKey
	}
	if a.AssignmentID == "" {
		a.AssignmentID = uuid.New().String()
	}
	m.items[a.AssignmentID] = *a
	return nil
}

func (m *mockAssignmentRepo) BatchCreate(ctx context.Context, assignments []model.Assignment) error {
	for i := range assignments {
		if err := m.Create(ctx, &assignments[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (m *mockAssignmentRepo) List(_ context.Context, filter repository.AssignmentFilter) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range m.items {
		if filter.StudentID != "" && a.StudentID != filter.StudentID {
			continue
		}
		if filter.PreceptorID != "" && a.PreceptorID != filter.PreceptorID {
			continue
		}
		if filter.ClerkshipID != "" && a.ClerkshipID != filter.ClerkshipID {
			continue
		}
		if filter.From != nil && a.RotationDate.Before(model.DateOnly(*filter.From)) {
			continue
		}
		if filter.To != nil && a.RotationDate.After(model.DateOnly(*filter.To)) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RotationDate.Equal(out[j].RotationDate) {
			return out[i].RotationDate.Before(out[j].RotationDate)
		}
		return out[i].AssignmentID < out[j].AssignmentID
	})
	return out, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.Assignment) error {
	stored, ok := m.items[a.AssignmentID]
	if !ok || stored.Version != a.Version {
		return pkgerrors.ErrOptimisticLock
	}
	a.RotationDate = model.DateOnly(a.RotationDate)
	if m.hasStudentDate(a.StudentID, a.RotationDate, a.AssignmentID) {
		return gorm.ErrDuplicatedKey
	}
	a.Version++
	m.items[a.AssignmentID] = *a
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockAssignmentRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.items[id]; ok {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) CountByPreceptorDate(_ context.Context, preceptorID string, date time.Time, excludeID string) (int64, error) {
	var n int64
	for id, a := range m.items {
		if id == excludeID {
			continue
		}
		if a.PreceptorID == preceptorID && a.RotationDate.Equal(model.DateOnly(date)) {
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) ExistsByStudentDate(_ context.Context, studentID string, date time.Time, excludeID string) (bool, error) {
	return m.hasStudentDate(studentID, date, excludeID), nil
}

// ── Availability ──

type mockAvailabilityRepo struct {
	items map[string]model.AvailabilityRecord
}

func availKey(preceptorID string, date time.Time) string {
	return fmt.Sprintf("%s|%s", preceptorID, model.DateOnly(date).Format("2006-01-02"))
}

func (m *mockAvailabilityRepo) Upsert(_ context.Context, r *model.AvailabilityRecord) error {
	r.Date = model.DateOnly(r.Date)
	if r.AvailabilityID == "" {
		r.AvailabilityID = uuid.New().String()
	}
	m.items[availKey(r.PreceptorID, r.Date)] = *r
	return nil
}

func (m *mockAvailabilityRepo) Get(_ context.Context, preceptorID string, date time.Time) (*model.AvailabilityRecord, error) {
	r, ok := m.items[availKey(preceptorID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (m *mockAvailabilityRepo) ListByPreceptor(_ context.Context, preceptorID string) ([]model.AvailabilityRecord, error) {
	var out []model.AvailabilityRecord
	for _, r := range m.items {
		if r.PreceptorID == preceptorID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockAvailabilityRepo) ListRange(_ context.Context, from, to time.Time) ([]model.AvailabilityRecord, error) {
	from, to = model.DateOnly(from), model.DateOnly(to)
	var out []model.AvailabilityRecord
	for _, r := range m.items {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockAvailabilityRepo) Delete(_ context.Context, preceptorID string, date time.Time) error {
	delete(m.items, availKey(preceptorID, date))
	return nil
}

// ── Blackouts ──

type mockBlackoutRepo struct {
	items map[time.Time]model.BlackoutDate
}

func (m *mockBlackoutRepo) Create(_ context.Context, b *model.BlackoutDate) error {
	b.Date = model.DateOnly(b.Date)
	m.items[b.Date] = *b
	return nil
}

func (m *mockBlackoutRepo) Contains(_ context.Context, date time.Time) (bool, error) {
	_, ok := m.items[model.DateOnly(date)]
	return ok, nil
}

func (m *mockBlackoutRepo) ListRange(_ context.Context, from, to time.Time) ([]model.BlackoutDate, error) {
	from, to = model.DateOnly(from), model.DateOnly(to)
	var out []model.BlackoutDate
	for _, b := range m.items {
		if !b.Date.Before(from) && !b.Date.After(to) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockBlackoutRepo) Delete(_ context.Context, date time.Time) error {
	delete(m.items, model.DateOnly(date))
	return nil
}

// ── Fixture helpers ──

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedStudent(r *repository.Repository, id, name string) model.Student {
	s := model.Student{StudentID: id, Name: name}
	_ = r.Student.Create(context.Background(), &s)
	return s
}

func seedPreceptor(r *repository.Repository, id, name string, maxStudents int, specialty string, siteID *string) model.Preceptor {
	p := model.Preceptor{PreceptorID: id, Name: name, MaxStudents: maxStudents, Specialty: specialty, SiteID: siteID}
	_ = r.Preceptor.Create(context.Background(), &p)
	return p
}

func seedClerkship(r *repository.Repository, id, name string, requiredDays int, specialty string) model.Clerkship {
	c := model.Clerkship{ClerkshipID: id, Name: name, RequiredDays: requiredDays, Specialty: specialty}
	_ = r.Clerkship.Create(context.Background(), &c)
	return c
}

func seedAssignment(r *repository.Repository, id, studentID, preceptorID, clerkshipID, date string) model.Assignment {
	a := model.Assignment{
		AssignmentID: id,
		StudentID:    studentID,
		PreceptorID:  preceptorID,
		ClerkshipID:  clerkshipID,
		RotationDate: day(date),
		Status:       model.StatusScheduled,
		Version:      1,
	}
	if err := r.Assignment.Create(context.Background(), &a); err != nil {
		panic(err)
	}
	return a
}
