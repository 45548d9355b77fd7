package workflow

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
	"github.com/contractpro/contractpro/internal/storage"
)

type memContracts struct {
	storage.ContractStorage
	byID map[string]*model.Contract
}

func (m *memContracts) FindByID(ctx context.Context, id string) (*model.Contract, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, apperr.NewNotFound("contract %s", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memContracts) Update(ctx context.Context, c *model.Contract) error {
	if _, ok := m.byID[c.ID]; !ok {
		return apperr.NewNotFound("contract %s", c.ID)
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

type memReviews struct {
	storage.ReviewStorage
	byID map[string]*model.ReviewAssignment
}

func (m *memReviews) Save(ctx context.Context, ra *model.ReviewAssignment) error {
	cp := *ra
	m.byID[ra.ID] = &cp
	return nil
}

func (m *memReviews) Update(ctx context.Context, ra *model.ReviewAssignment) error {
	cp := *ra
	m.byID[ra.ID] = &cp
	return nil
}

func (m *memReviews) FindCurrent(ctx context.Context, contractID, reviewerID string) (*model.ReviewAssignment, error) {
	var best *model.ReviewAssignment
	for _, ra := range m.byID {
		if ra.ContractID != contractID || ra.ReviewerID != reviewerID {
			continue
		}
		if ra.Status != model.ReviewPending && ra.Status != model.ReviewInProgress {
			continue
		}
		if best == nil || later(ra.AssignedAt, best.AssignedAt) {
			best = ra
		}
	}
	if best == nil {
		return nil, apperr.NewNotFound("open review for contract %s", contractID)
	}
	cp := *best
	return &cp, nil
}

func later(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

func (m *memReviews) MaxOrder(ctx context.Context, contractID string) (int, error) {
	max := 0
	for _, ra := range m.byID {
		if ra.ContractID == contractID && ra.ReviewOrder > max {
			max = ra.ReviewOrder
		}
	}
	return max, nil
}

func (m *memReviews) open(contractID string) []*model.ReviewAssignment {
	var out []*model.ReviewAssignment
	for _, ra := range m.byID {
		if ra.ContractID == contractID &&
			(ra.Status == model.ReviewPending || ra.Status == model.ReviewInProgress) {
			out = append(out, ra)
		}
	}
	return out
}

type memUsers struct {
	storage.UserStorage
	byID map[string]*model.User
}

func (m *memUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperr.NewNotFound("user %s", id)
	}
	return u, nil
}

type memLedger struct {
	records []model.NotificationRecord
}

func (m *memLedger) Record(ctx context.Context, n *model.NotificationRecord) error {
	m.records = append(m.records, *n)
	return nil
}

func (m *memLedger) SentKinds(ctx context.Context, contractID, recipientID string) (map[model.NotificationKind]bool, error) {
	return map[model.NotificationKind]bool{}, nil
}

func (m *memLedger) HasSent(ctx context.Context, contractID, recipientID string, kind model.NotificationKind) (bool, error) {
	return false, nil
}

func (m *memLedger) Recent(ctx context.Context, limit int) ([]model.NotificationRecord, error) {
	return m.records, nil
}

type memMailer struct {
	sent []string // recipient addresses
}

func (m *memMailer) Send(ctx context.Context, to, subject, htmlBody string, cc []string) error {
	m.sent = append(m.sent, to)
	return nil
}

type wfFixture struct {
	contracts *memContracts
	reviews   *memReviews
	users     *memUsers
	ledger    *memLedger
	mailer    *memMailer
	svc       *Service
}

var testNow = time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)

func newWFFixture(t *testing.T) *wfFixture {
	t.Helper()
	f := &wfFixture{
		contracts: &memContracts{byID: map[string]*model.Contract{}},
		reviews:   &memReviews{byID: map[string]*model.ReviewAssignment{}},
		users:     &memUsers{byID: map[string]*model.User{}},
		ledger:    &memLedger{},
		mailer:    &memMailer{},
	}
	f.svc = NewService(
		f.contracts, f.reviews, f.users, f.ledger, f.mailer, nil,
		"http://localhost:8080", slog.Default(),
	).WithClock(func() time.Time { return testNow })

	for _, id := range []string{"uploader", "rev1", "rev2", "vendor"} {
		f.users.byID[id] = &model.User{ID: id, Username: id, Email: id + "@example.com", FullName: id}
	}
	return f
}

func (f *wfFixture) seedInReview(contractID, reviewerID string) *model.Contract {
	handler := reviewerID
	assigned := testNow.Add(-48 * time.Hour)
	f.contracts.byID[contractID] = &model.Contract{
		ID:               contractID,
		Title:            "Test Contract",
		ContractNumber:   "CTR-2026-0001",
		Status:           model.StatusInReview,
		CurrentHandlerID: &handler,
		UploaderID:       "uploader",
	}
	f.reviews.byID["ra1"] = &model.ReviewAssignment{
		ID:          "ra1",
		ContractID:  contractID,
		ReviewerID:  reviewerID,
		ReviewOrder: 1,
		Status:      model.ReviewPending,
		AssignedAt:  &assigned,
	}
	return f.contracts.byID[contractID]
}

func TestApprove(t *testing.T) {
	f := newWFFixture(t)
	f.seedInReview("c1", "rev1")

	err := f.svc.SubmitReview(context.Background(), "c1", "rev1", model.ActionApprove, "", "looks good")
	require.NoError(t, err)

	c := f.contracts.byID["c1"]
	assert.Equal(t, model.StatusApproved, c.Status)
	assert.Nil(t, c.CurrentHandlerID)

	ra := f.reviews.byID["ra1"]
	assert.Equal(t, model.ReviewCompleted, ra.Status)
	require.NotNil(t, ra.ActionTaken)
	assert.Equal(t, model.ActionApprove, *ra.ActionTaken)
	require.NotNil(t, ra.StartedAt)
	require.NotNil(t, ra.CompletedAt)
	assert.False(t, ra.StartedAt.After(*ra.CompletedAt))

	// uploader gets the approval notice
	assert.Contains(t, f.mailer.sent, "uploader@example.com")
	require.Len(t, f.ledger.records, 1)
	assert.Equal(t, model.KindApproval, f.ledger.records[0].Kind)
	assert.Equal(t, "uploader", f.ledger.records[0].RecipientID)
}

func TestSendToNext(t *testing.T) {
	f := newWFFixture(t)
	f.seedInReview("c1", "rev1")

	err := f.svc.SubmitReview(context.Background(), "c1", "rev1", model.ActionSendToNext, "rev2", "over to you")
	require.NoError(t, err)

	c := f.contracts.byID["c1"]
	assert.Equal(t, model.StatusInReview, c.Status)
	require.NotNil(t, c.CurrentHandlerID)
	assert.Equal(t, "rev2", *c.CurrentHandlerID)

	open := f.reviews.open("c1")
	require.Len(t, open, 1, "exactly one open assignment after forwarding")
	assert.Equal(t, "rev2", open[0].ReviewerID)
	assert.Equal(t, 2, open[0].ReviewOrder)
	require.NotNil(t, open[0].AssignedAt)

	assert.Contains(t, f.mailer.sent, "rev2@example.com")
}

func TestSendToNextRequiresReviewer(t *testing.T) {
	f := newWFFixture(t)
	f.seedInReview("c1", "rev1")

	err := f.svc.SubmitReview(context.Background(), "c1", "rev1", model.ActionSendToNext, "", "")
	assert.True(t, apperr.IsValidation(err))
}

func TestVendorFeedbackKeepsHandler(t *testing.T) {
	f := newWFFixture(t)
	f.seedInReview("c1", "rev1")

	err := f.svc.SubmitReview(context.Background(), "c1", "rev1", model.ActionVendorFeedback, "", "needs vendor input")
	require.NoError(t, err)

	c := f.contracts.byID["c1"]
	assert.Equal(t, model.StatusVendorFeedback, c.Status)
	// handler deliberately untouched by this transition
	require.NotNil(t, c.CurrentHandlerID)
	assert.Equal(t, "rev1", *c.CurrentHandlerID)
}

func TestVendorResubmit(t *testing.T) {
	f := newWFFixture(t)
	c := f.seedInReview("c1", "vendor")
	c.Status = model.StatusVendorFeedback

	err := f.svc.VendorResubmit(context.Background(), "c1", "vendor", "updated terms")
	require.NoError(t, err)

	got := f.contracts.byID["c1"]
	assert.Equal(t, model.StatusInReview, got.Status)
	require.NotNil(t, got.CurrentHandlerID)
	assert.Equal(t, "uploader", *got.CurrentHandlerID)
	assert.Contains(t, f.mailer.sent, "uploader@example.com")
}

func TestVendorResubmitRejectsWrongVendor(t *testing.T) {
	f := newWFFixture(t)
	c := f.seedInReview("c1", "vendor")
	c.Status = model.StatusVendorFeedback

	err := f.svc.VendorResubmit(context.Background(), "c1", "rev1", "")
	assert.True(t, apperr.IsValidation(err))
}

func TestCompletionBackfillsStartedAt(t *testing.T) {
	f := newWFFixture(t)
	f.seedInReview("c1", "rev1")
	f.reviews.byID["ra1"].AssignedAt = nil

	err := f.svc.SubmitReview(context.Background(), "c1", "rev1", model.ActionApprove, "", "")
	require.NoError(t, err)

	ra := f.reviews.byID["ra1"]
	require.NotNil(t, ra.StartedAt)
	assert.Equal(t, testNow, *ra.StartedAt)
}

func TestAssignFirstReviewer(t *testing.T) {
	f := newWFFixture(t)
	handler := "rev1"
	c := &model.Contract{
		ID:               "c1",
		Title:            "Fresh",
		ContractNumber:   "CTR-2026-0002",
		Status:           model.StatusDraft,
		CurrentHandlerID: &handler,
		UploaderID:       "uploader",
	}
	f.contracts.byID["c1"] = c

	require.NoError(t, f.svc.AssignFirstReviewer(context.Background(), c, "rev1"))

	open := f.reviews.open("c1")
	require.Len(t, open, 1)
	assert.Equal(t, 1, open[0].ReviewOrder)
	assert.Equal(t, model.ReviewPending, open[0].Status)
	assert.Contains(t, f.mailer.sent, "rev1@example.com")
}
