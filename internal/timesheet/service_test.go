package timesheet_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/timesheet"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/timeutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRepository implements timesheet.Repository for testing. Lookups are
// deliberately not tenant filtered so the service's own tenant checks get
// exercised.
type MockRepository struct {
	entries    map[int64]*timesheet.Entry
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		entries: make(map[int64]*timesheet.Entry),
		nextID:  1,
	}
}

func (m *MockRepository) Create(tenantID int64, entry *timesheet.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	entry.ID = m.nextID
	m.nextID++
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *MockRepository) Update(tenantID int64, entry *timesheet.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *MockRepository) Delete(tenantID, id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.entries, id)
	return nil
}

func (m *MockRepository) GetByID(tenantID, id int64) (*timesheet.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	entry, ok := m.entries[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *entry
	return &copied, nil
}

func (m *MockRepository) GetByIDs(tenantID int64, ids []int64) ([]*timesheet.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*timesheet.Entry
	for _, id := range ids {
		if entry, ok := m.entries[id]; ok {
			copied := *entry
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockRepository) GetForContractorRange(tenantID, contractorID int64, from, to time.Time) ([]*timesheet.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*timesheet.Entry
	for id := int64(1); id < m.nextID; id++ {
		entry, ok := m.entries[id]
		if !ok || entry.ContractorID != contractorID || entry.TenantID != tenantID {
			continue
		}
		if entry.EntryDate.Before(from) || !entry.EntryDate.Before(to) {
			continue
		}
		copied := *entry
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockRepository) GetBySlot(tenantID, contractorID, projectID int64, taskID *int64, date time.Time) (*timesheet.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, entry := range m.entries {
		if entry.TenantID != tenantID || entry.ContractorID != contractorID || entry.ProjectID != projectID {
			continue
		}
		if !timeutil.SameDay(entry.EntryDate, date) {
			continue
		}
		sameTask := (entry.TaskID == nil && taskID == nil) ||
			(entry.TaskID != nil && taskID != nil && *entry.TaskID == *taskID)
		if sameTask {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetNonDraftByTenant(tenantID int64) ([]*timesheet.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*timesheet.Entry
	for id := int64(1); id < m.nextID; id++ {
		entry, ok := m.entries[id]
		if !ok || entry.TenantID != tenantID || entry.Status == timesheet.StatusDraft {
			continue
		}
		copied := *entry
		result = append(result, &copied)
	}
	return result, nil
}

// MockDirectory implements timesheet.ProjectDirectory with canned names.
type MockDirectory struct {
	projects map[int64]string
	tasks    map[int64]string
}

func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		projects: map[int64]string{100: "Website Redesign", 200: "Mobile App"},
		tasks:    map[int64]string{7: "Design", 9: "API Integration"},
	}
}

func (m *MockDirectory) ProjectName(tenantID, projectID int64) (string, error) {
	name, ok := m.projects[projectID]
	if !ok {
		return "", fmt.Errorf("project %d not found", projectID)
	}
	return name, nil
}

func (m *MockDirectory) TaskName(tenantID, taskID int64) (string, error) {
	name, ok := m.tasks[taskID]
	if !ok {
		return "", fmt.Errorf("task %d not found", taskID)
	}
	return name, nil
}

var _ = Describe("Timesheet Service", func() {
	var (
		repo    *MockRepository
		service *timesheet.Service
		alice   timesheet.Actor
		mallory timesheet.Actor
	)

	const tenantID = int64(1)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = timesheet.NewService(repo, NewMockDirectory(), events.NewEventBus(logger), logger)
		alice = timesheet.Actor{ID: 10, Name: "Alice Carter"}
		mallory = timesheet.Actor{ID: 66, Name: "Mallory"}
	})

	seedEntry := func(actor timesheet.Actor, date string, hours float64, status string) *timesheet.Entry {
		entry := &timesheet.Entry{
			TenantID:       tenantID,
			ContractorID:   actor.ID,
			ContractorName: actor.Name,
			ProjectID:      100,
			ProjectName:    "Website Redesign",
			EntryDate:      day(date),
			Hours:          hours,
			Status:         status,
		}
		Expect(repo.Create(tenantID, entry)).To(Succeed())
		return entry
	}

	Describe("UpsertEntry", func() {
		It("should create a draft with snapshotted names", func() {
			entry, err := service.UpsertEntry(tenantID, alice, timesheet.UpsertEntryDTO{
				ProjectID:   100,
				TaskID:      taskID(7),
				Date:        "2024-01-08",
				Hours:       4,
				Description: "wireframes",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ID).To(BeNumerically(">", 0))
			Expect(entry.Status).To(Equal(timesheet.StatusDraft))
			Expect(entry.ProjectName).To(Equal("Website Redesign"))
			Expect(*entry.TaskName).To(Equal("Design"))
			Expect(entry.ContractorName).To(Equal("Alice Carter"))
		})

		It("should treat zero hours on an empty slot as a no-op", func() {
			entry, err := service.UpsertEntry(tenantID, alice, timesheet.UpsertEntryDTO{
				ProjectID: 100,
				Date:      "2024-01-08",
				Hours:     0,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(entry).To(BeNil())
			Expect(repo.entries).To(BeEmpty())
		})

		It("should update the existing entry at the same slot instead of duplicating", func() {
			existing := seedEntry(alice, "2024-01-08", 2, timesheet.StatusDraft)

			entry, err := service.UpsertEntry(tenantID, alice, timesheet.UpsertEntryDTO{
				ProjectID: 100,
				Date:      "2024-01-08",
				Hours:     6,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ID).To(Equal(existing.ID))
			Expect(entry.Hours).To(Equal(6.0))
			Expect(repo.entries).To(HaveLen(1))
		})

		It("should reject invalid payloads", func() {
			_, err := service.UpsertEntry(tenantID, alice, timesheet.UpsertEntryDTO{
				ProjectID: 0,
				Date:      "not-a-date",
				Hours:     -1,
			})

			Expect(err).To(HaveOccurred())
			_, isAppErr := internal.IsAppError(err)
			Expect(isAppErr).To(BeTrue())
		})

		It("should force an approved entry back to draft when edited", func() {
			existing := seedEntry(alice, "2024-01-08", 4, timesheet.StatusApproved)
			reviewer := int64(20)
			now := time.Now()
			existing.ReviewedBy = &reviewer
			existing.ReviewedAt = &now
			Expect(repo.Update(tenantID, existing)).To(Succeed())

			entry, err := service.UpsertEntry(tenantID, alice, timesheet.UpsertEntryDTO{
				ID:        existing.ID,
				ProjectID: 100,
				Date:      "2024-01-08",
				Hours:     5,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Status).To(Equal(timesheet.StatusDraft))
			Expect(entry.ReviewedBy).To(BeNil())
			Expect(entry.ReviewedAt).To(BeNil())
		})

		It("should refuse edits to another contractor's entry", func() {
			existing := seedEntry(alice, "2024-01-08", 4, timesheet.StatusDraft)

			_, err := service.UpsertEntry(tenantID, mallory, timesheet.UpsertEntryDTO{
				ID:        existing.ID,
				ProjectID: 100,
				Date:      "2024-01-08",
				Hours:     1,
			})

			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
			Expect(repo.entries[existing.ID].Hours).To(Equal(4.0))
		})

		It("should refuse entries belonging to another tenant without mutating them", func() {
			existing := seedEntry(alice, "2024-01-08", 4, timesheet.StatusDraft)

			_, err := service.UpsertEntry(int64(2), alice, timesheet.UpsertEntryDTO{
				ID:        existing.ID,
				ProjectID: 100,
				Date:      "2024-01-08",
				Hours:     1,
			})

			Expect(err).To(MatchError(internal.ErrTenantMismatch))
			Expect(repo.entries[existing.ID].Hours).To(Equal(4.0))
		})
	})

	Describe("DeleteEntry", func() {
		It("should delete the contractor's own entry", func() {
			existing := seedEntry(alice, "2024-01-08", 4, timesheet.StatusDraft)

			Expect(service.DeleteEntry(tenantID, alice.ID, existing.ID)).To(Succeed())
			Expect(repo.entries).To(BeEmpty())
		})

		It("should refuse to delete someone else's entry", func() {
			existing := seedEntry(alice, "2024-01-08", 4, timesheet.StatusDraft)

			err := service.DeleteEntry(tenantID, mallory.ID, existing.ID)
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
			Expect(repo.entries).To(HaveLen(1))
		})

		It("should report missing entries as not found", func() {
			err := service.DeleteEntry(tenantID, alice.ID, 999)
			Expect(err).To(MatchError(internal.ErrEntryNotFound))
		})
	})

	Describe("SubmitWeek", func() {
		It("should submit a clean week of drafts", func() {
			first := seedEntry(alice, "2024-01-08", 8, timesheet.StatusDraft)
			second := seedEntry(alice, "2024-01-09", 7, timesheet.StatusDraft)

			result, err := service.SubmitWeek(tenantID, alice, timesheet.SubmitWeekDTO{
				EntryIDs: []int64{first.ID, second.ID},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Submitted).To(BeTrue())
			Expect(repo.entries[first.ID].Status).To(Equal(timesheet.StatusSubmitted))
			Expect(repo.entries[second.ID].Status).To(Equal(timesheet.StatusSubmitted))
		})

		It("should pause with warnings on weekend hours until forced", func() {
			entry := seedEntry(alice, "2024-01-13", 4, timesheet.StatusDraft) // Saturday

			result, err := service.SubmitWeek(tenantID, alice, timesheet.SubmitWeekDTO{
				EntryIDs: []int64{entry.ID},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Submitted).To(BeFalse())
			Expect(result.Warnings).To(ContainElement(
				"You have logged hours on a weekend (Saturday or Sunday)."))
			Expect(repo.entries[entry.ID].Status).To(Equal(timesheet.StatusDraft))

			result, err = service.SubmitWeek(tenantID, alice, timesheet.SubmitWeekDTO{
				EntryIDs: []int64{entry.ID},
				Force:    true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Submitted).To(BeTrue())
			Expect(repo.entries[entry.ID].Status).To(Equal(timesheet.StatusSubmitted))
		})

		It("should refuse the whole batch when one entry is foreign", func() {
			mine := seedEntry(alice, "2024-01-08", 4, timesheet.StatusDraft)
			theirs := seedEntry(mallory, "2024-01-08", 4, timesheet.StatusDraft)

			_, err := service.SubmitWeek(tenantID, alice, timesheet.SubmitWeekDTO{
				EntryIDs: []int64{mine.ID, theirs.ID},
			})

			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
			Expect(repo.entries[mine.ID].Status).To(Equal(timesheet.StatusDraft))
		})

		It("should refuse the whole batch when one entry is not a draft", func() {
			draft := seedEntry(alice, "2024-01-08", 4, timesheet.StatusDraft)
			approved := seedEntry(alice, "2024-01-09", 4, timesheet.StatusApproved)

			_, err := service.SubmitWeek(tenantID, alice, timesheet.SubmitWeekDTO{
				EntryIDs: []int64{draft.ID, approved.ID},
			})

			Expect(err).To(MatchError(internal.ErrInvalidEntryStatus))
			Expect(repo.entries[draft.ID].Status).To(Equal(timesheet.StatusDraft))
		})

		It("should require a non-empty batch", func() {
			_, err := service.SubmitWeek(tenantID, alice, timesheet.SubmitWeekDTO{})
			Expect(err).To(MatchError(internal.ErrNothingToSubmit))
		})

		It("should report missing ids as not found", func() {
			_, err := service.SubmitWeek(tenantID, alice, timesheet.SubmitWeekDTO{EntryIDs: []int64{999}})
			Expect(err).To(MatchError(internal.ErrEntryNotFound))
		})
	})

	Describe("ApproveWeek", func() {
		reviewer := timesheet.Actor{ID: 20, Name: "Maria Lopez"}

		It("should approve submitted entries with one shared timestamp", func() {
			first := seedEntry(alice, "2024-01-08", 8, timesheet.StatusSubmitted)
			second := seedEntry(alice, "2024-01-09", 7, timesheet.StatusSubmitted)

			err := service.ApproveWeek(tenantID, reviewer, timesheet.ApproveWeekDTO{
				EntryIDs: []int64{first.ID, second.ID},
				Comment:  "looks good",
			})

			Expect(err).NotTo(HaveOccurred())
			a := repo.entries[first.ID]
			b := repo.entries[second.ID]
			Expect(a.Status).To(Equal(timesheet.StatusApproved))
			Expect(b.Status).To(Equal(timesheet.StatusApproved))
			Expect(*a.ReviewedBy).To(Equal(reviewer.ID))
			Expect(*a.ManagerComment).To(Equal("looks good"))
			Expect(a.ReviewedAt.Equal(*b.ReviewedAt)).To(BeTrue())
		})

		It("should skip entries already approved", func() {
			already := seedEntry(alice, "2024-01-08", 8, timesheet.StatusApproved)
			pending := seedEntry(alice, "2024-01-09", 7, timesheet.StatusSubmitted)

			err := service.ApproveWeek(tenantID, reviewer, timesheet.ApproveWeekDTO{
				EntryIDs: []int64{already.ID, pending.ID},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.entries[pending.ID].Status).To(Equal(timesheet.StatusApproved))
		})

		It("should refuse the batch when an entry was never submitted", func() {
			draft := seedEntry(alice, "2024-01-08", 8, timesheet.StatusDraft)
			pending := seedEntry(alice, "2024-01-09", 7, timesheet.StatusSubmitted)

			err := service.ApproveWeek(tenantID, reviewer, timesheet.ApproveWeekDTO{
				EntryIDs: []int64{draft.ID, pending.ID},
			})

			Expect(err).To(MatchError(internal.ErrInvalidEntryStatus))
			Expect(repo.entries[pending.ID].Status).To(Equal(timesheet.StatusSubmitted))
		})
	})

	Describe("RejectWeek", func() {
		reviewer := timesheet.Actor{ID: 20, Name: "Maria Lopez"}

		It("should reject submitted entries with the shared reason", func() {
			entry := seedEntry(alice, "2024-01-08", 8, timesheet.StatusSubmitted)

			err := service.RejectWeek(tenantID, reviewer, timesheet.RejectWeekDTO{
				EntryIDs: []int64{entry.ID},
				Reason:   "wrong project",
			})

			Expect(err).NotTo(HaveOccurred())
			stored := repo.entries[entry.ID]
			Expect(stored.Status).To(Equal(timesheet.StatusRejected))
			Expect(*stored.RejectionReason).To(Equal("wrong project"))
		})

		It("should demand a reason", func() {
			entry := seedEntry(alice, "2024-01-08", 8, timesheet.StatusSubmitted)

			err := service.RejectWeek(tenantID, reviewer, timesheet.RejectWeekDTO{
				EntryIDs: []int64{entry.ID},
				Reason:   "   ",
			})

			Expect(err).To(MatchError(internal.ErrMissingReason))
			Expect(repo.entries[entry.ID].Status).To(Equal(timesheet.StatusSubmitted))
		})
	})

	Describe("RevertWeek", func() {
		reviewer := timesheet.Actor{ID: 20, Name: "Maria Lopez"}

		It("should put reviewed entries back into the queue and clear metadata", func() {
			entry := seedEntry(alice, "2024-01-08", 8, timesheet.StatusRejected)
			reason := "too many hours"
			entry.RejectionReason = &reason
			Expect(repo.Update(tenantID, entry)).To(Succeed())

			err := service.RevertWeek(tenantID, reviewer, timesheet.RevertWeekDTO{
				EntryIDs: []int64{entry.ID},
			})

			Expect(err).NotTo(HaveOccurred())
			stored := repo.entries[entry.ID]
			Expect(stored.Status).To(Equal(timesheet.StatusSubmitted))
			Expect(stored.RejectionReason).To(BeNil())
			Expect(stored.ReviewedBy).To(BeNil())
		})

		It("should refuse reverting a draft", func() {
			entry := seedEntry(alice, "2024-01-08", 8, timesheet.StatusDraft)

			err := service.RevertWeek(tenantID, reviewer, timesheet.RevertWeekDTO{
				EntryIDs: []int64{entry.ID},
			})

			Expect(err).To(MatchError(internal.ErrInvalidEntryStatus))
		})
	})

	Describe("UpdateComment", func() {
		reviewer := timesheet.Actor{ID: 20, Name: "Maria Lopez"}

		It("should rewrite the rejection reason on rejected entries", func() {
			entry := seedEntry(alice, "2024-01-08", 8, timesheet.StatusRejected)

			err := service.UpdateComment(tenantID, reviewer, timesheet.UpdateCommentDTO{
				EntryIDs: []int64{entry.ID},
				Comment:  "please split across tasks",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(*repo.entries[entry.ID].RejectionReason).To(Equal("please split across tasks"))
			Expect(repo.entries[entry.ID].Status).To(Equal(timesheet.StatusRejected))
		})

		It("should refuse comments on entries still awaiting review", func() {
			entry := seedEntry(alice, "2024-01-08", 8, timesheet.StatusSubmitted)

			err := service.UpdateComment(tenantID, reviewer, timesheet.UpdateCommentDTO{
				EntryIDs: []int64{entry.ID},
				Comment:  "note",
			})

			Expect(err).To(MatchError(internal.ErrInvalidEntryStatus))
		})
	})

	Describe("WeekSheet", func() {
		It("should only surface the actor's entries for the requested week", func() {
			seedEntry(alice, "2024-01-08", 4, timesheet.StatusDraft)
			seedEntry(alice, "2024-01-16", 4, timesheet.StatusDraft)
			seedEntry(mallory, "2024-01-08", 4, timesheet.StatusDraft)

			sheet, err := service.WeekSheet(tenantID, alice.ID, day("2024-01-10"), nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.WeekTotal).To(Equal(4.0))
			Expect(sheet.EntryIDs).To(HaveLen(1))
		})
	})

	Describe("Summaries", func() {
		It("should build the manager queue from non-draft entries", func() {
			seedEntry(alice, "2024-01-08", 4, timesheet.StatusSubmitted)
			seedEntry(alice, "2024-01-09", 3, timesheet.StatusSubmitted)
			seedEntry(mallory, "2024-01-08", 2, timesheet.StatusDraft)

			summaries, err := service.Summaries(tenantID)

			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(1))
			Expect(summaries[0].TotalHours).To(Equal(7.0))
			Expect(summaries[0].Status).To(Equal(timesheet.SheetStatusPending))
		})
	})
})
