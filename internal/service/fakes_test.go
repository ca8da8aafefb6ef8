package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"eventInvite/internal/model"
	"eventInvite/internal/repo"
	"eventInvite/internal/report"
	"eventInvite/internal/storage"
)

type fakeRepo struct {
	mu          sync.Mutex
	nextID      int64
	organizers  map[string]*model.Organizer
	sessions    map[string]*model.Session
	events      map[int64]*model.Event
	guests      map[int64]*model.InvitedGuest
	submissions []model.RSVPSubmission
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		organizers: map[string]*model.Organizer{},
		sessions:   map[string]*model.Session{},
		events:     map[int64]*model.Event{},
		guests:     map[int64]*model.InvitedGuest{},
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) CreateOrganizer(_ context.Context, o *model.Organizer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.organizers {
		if existing.Email == o.Email {
			return repo.ErrEmailTaken
		}
	}
	o.CreatedAt = time.Now()
	cp := *o
	f.organizers[o.ID] = &cp
	return nil
}

func (f *fakeRepo) GetOrganizerByEmail(_ context.Context, email string) (*model.Organizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.organizers {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repo.ErrOrganizerNotFound
}

func (f *fakeRepo) GetOrganizerByID(_ context.Context, id string) (*model.Organizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.organizers[id]
	if !ok {
		return nil, repo.ErrOrganizerNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) CreateSession(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeRepo) GetSession(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repo.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return repo.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeRepo) addEvent(e model.Event) *model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.id()
	f.events[e.ID] = &e
	return &e
}

func (f *fakeRepo) CreateEvent(_ context.Context, e *model.Event) (int64, error) {
	return f.addEvent(*e).ID, nil
}

func (f *fakeRepo) GetEventByID(_ context.Context, id int64) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, repo.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRepo) GetLatestEvent(_ context.Context, organizerID string) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.Event
	for _, e := range f.events {
		if e.OrganizerID == organizerID && (latest == nil || e.ID > latest.ID) {
			latest = e
		}
	}
	if latest == nil {
		return nil, repo.ErrEventNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeRepo) UpdateEventDetails(_ context.Context, id int64, t model.EventType, d model.EventDetails, resetInvitation bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return repo.ErrEventNotFound
	}
	e.EventType, e.Details = t, d
	if resetInvitation {
		e.InvitationText, e.InvitationPath = "", ""
	}
	return nil
}

func (f *fakeRepo) UpdateEventDesign(_ context.Context, id int64, path, text, font, designID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return repo.ErrEventNotFound
	}
	e.InvitationPath, e.InvitationText, e.Font, e.DesignID = path, text, font, designID
	return nil
}

func (f *fakeRepo) addGuest(g model.InvitedGuest) *model.InvitedGuest {
	f.mu.Lock()
	defer f.mu.Unlock()
	g.ID = f.id()
	f.guests[g.ID] = &g
	return &g
}

func (f *fakeRepo) CreateGuest(_ context.Context, g *model.InvitedGuest) (int64, error) {
	return f.addGuest(*g).ID, nil
}

func (f *fakeRepo) GetGuest(_ context.Context, eventID, guestID int64) (*model.InvitedGuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[guestID]
	if !ok || g.EventID != eventID {
		return nil, repo.ErrGuestNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeRepo) filterGuests(match func(g *model.InvitedGuest) bool) []model.InvitedGuest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.InvitedGuest
	for id := int64(1); id <= f.nextID; id++ {
		if g, ok := f.guests[id]; ok && match(g) {
			out = append(out, *g)
		}
	}
	return out
}

func (f *fakeRepo) ListGuests(_ context.Context, eventID int64) ([]model.InvitedGuest, error) {
	return f.filterGuests(func(g *model.InvitedGuest) bool { return g.EventID == eventID }), nil
}

func (f *fakeRepo) ListGuestsByStatus(_ context.Context, eventID int64, status model.GuestStatus) ([]model.InvitedGuest, error) {
	return f.filterGuests(func(g *model.InvitedGuest) bool {
		return g.EventID == eventID && report.Matches(*g, status)
	}), nil
}

func (f *fakeRepo) SearchGuests(_ context.Context, eventID int64, q string) ([]model.InvitedGuest, error) {
	q = strings.ToLower(q)
	return f.filterGuests(func(g *model.InvitedGuest) bool {
		return g.EventID == eventID && (strings.Contains(strings.ToLower(g.FirstName), q) ||
			strings.Contains(strings.ToLower(g.LastName), q) || strings.Contains(g.Phone, q))
	}), nil
}

func (f *fakeRepo) CountGuests(_ context.Context, eventID int64) (int, int, error) {
	var total, answered int
	for _, g := range f.filterGuests(func(g *model.InvitedGuest) bool { return g.EventID == eventID }) {
		total++
		if g.Status == model.StatusApproved || g.Status == model.StatusRejected {
			answered++
		}
	}
	return total, answered, nil
}

func (f *fakeRepo) UpdateGuestResponse(_ context.Context, eventID, guestID int64, r model.GuestResponse) (*model.InvitedGuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[guestID]
	if !ok || g.EventID != eventID {
		return nil, repo.ErrGuestNotFound
	}
	g.Status = r.Status
	g.Adults, g.Children, g.TotalGuests = r.Adults, r.Children, r.Adults+r.Children
	g.VegAdults, g.VegChildren = r.VegAdults, r.VegChildren
	g.VeganAdults, g.VeganChildren = r.VeganAdults, r.VeganChildren
	g.GlattAdults, g.GlattChildren = r.GlattAdults, r.GlattChildren
	g.AllergyAdults, g.AllergyChildren = r.AllergyAdults, r.AllergyChildren
	if r.AllergyNote != nil {
		g.AllergyNote = *r.AllergyNote
	}
	cp := *g
	return &cp, nil
}

func (f *fakeRepo) SetStatusByPhone(_ context.Context, phoneDigits string, status model.GuestStatus) (*model.InvitedGuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guests {
		if strings.ReplaceAll(g.Phone, "-", "") == phoneDigits {
			g.Status = status
			cp := *g
			return &cp, nil
		}
	}
	return nil, repo.ErrGuestNotFound
}

func (f *fakeRepo) CreateRSVPSubmission(_ context.Context, s *model.RSVPSubmission) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.id()
	f.submissions = append(f.submissions, *s)
	return s.ID, nil
}

func (f *fakeRepo) MigrateUp(string) error   { return nil }
func (f *fakeRepo) MigrateDown(string) error { return nil }

type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ storage.Bucket = (*memBucket)(nil)

func (b *memBucket) Upload(_ context.Context, name string, data []byte, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.objects == nil {
		b.objects = map[string][]byte{}
	}
	b.objects[name] = data
	return nil
}

func (b *memBucket) Download(_ context.Context, name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[name]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (b *memBucket) PublicURL(name string) string {
	return "https://cdn.example/invites/" + name
}

type fakeQueue struct {
	mu     sync.Mutex
	jobs   []map[string]any
	delays []time.Duration
}

func (q *fakeQueue) Publish(_ context.Context, msg []byte, delay time.Duration) error {
	var m map[string]any
	if err := json.Unmarshal(msg, &m); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, m)
	q.delays = append(q.delays, delay)
	return nil
}

type fakeSender struct {
	phone   string
	caption string
	image   []byte
}

func (s *fakeSender) SendImage(_ context.Context, phone string, image []byte, _, caption string) error {
	s.phone, s.caption, s.image = phone, caption, image
	return nil
}
