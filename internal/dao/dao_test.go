package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/pkg/writequeue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{Type: "sqlite", Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	wq := writequeue.New(writequeue.Config{}, zap.NewNop())
	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
	})

	return New(db, context.Background(),
		WithConfig(&DatabaseConfig{AutoMigrate: true}),
		WithWriteQueueManager(wq),
	)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func TestContractRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewContractRepository(newTestDao(t))

	c := &domain.Contract{
		Number:        1,
		Date:          day(2024, 3, 5),
		Title:         "Wartungsvertrag Server",
		CoContractorA: "ACME GmbH",
		Status:        domain.ContractStatusDraft,
		DueDate:       dayPtr(2024, 12, 31),
	}
	id, err := repo.Insert(ctx, c)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, id, c.ID)
	assert.False(t, c.Created.IsZero())

	_, err = repo.Insert(ctx, c)
	assert.ErrorIs(t, err, ErrIDAlreadySet)

	got, err := repo.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Wartungsvertrag Server", got.Title)
	assert.Equal(t, domain.ContractStatusDraft, got.Status)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(day(2024, 12, 31)))
	assert.Nil(t, got.ValidFrom)

	modified, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.False(t, modified, "unchanged object must not be written")

	got.Status = domain.ContractStatusSigned
	got.SigningDate = dayPtr(2024, 3, 10)
	modified, err = repo.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, modified)

	again, err := repo.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStatusSigned, again.Status)
	assert.True(t, !again.LastUpdate.Before(again.Created))

	require.NoError(t, repo.MarkAsDeleted(ctx, id))
	deleted, err := repo.Find(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	list, err := repo.GetList(ctx, domain.ContractFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.GetList(ctx, domain.ContractFilter{Deleted: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Undelete(ctx, id))
	list, err = repo.GetList(ctx, domain.ContractFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.Find(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.MarkAsDeleted(ctx, 9999), gorm.ErrRecordNotFound)
}

func TestContractRepository_Filter(t *testing.T) {
	ctx := context.Background()
	repo := NewContractRepository(newTestDao(t))

	fixtures := []*domain.Contract{
		{Number: 1, Date: day(2021, 1, 10), Title: "Mietvertrag Büro", Status: domain.ContractStatusSigned, Type: "rent"},
		{Number: 2, Date: day(2023, 6, 1), Title: "Softwarelizenz", Status: domain.ContractStatusDraft, Reference: "REF-77"},
		{Number: 17, Date: day(2024, 2, 2), Title: "Reinigung", CoContractorB: "Putz AG", Status: domain.ContractStatusSigned},
		{Number: 3, Date: day(2022, 5, 5), Title: "Wartung", Filing: "Ordner 17", SignerA: "Meier 4711", Status: domain.ContractStatusDraft},
	}
	for _, c := range fixtures {
		_, err := repo.Insert(ctx, c)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter domain.ContractFilter
		want   []int
	}{
		{"all", domain.ContractFilter{}, []int{17, 3, 2, 1}},
		{"year", domain.ContractFilter{Year: 2023}, []int{2}},
		{"status", domain.ContractFilter{Status: domain.ContractStatusSigned}, []int{17, 1}},
		{"type", domain.ContractFilter{Type: "rent"}, []int{1}},
		{"search is case insensitive", domain.ContractFilter{SearchString: "putz"}, []int{17}},
		{"search reference", domain.ContractFilter{SearchString: "ref-77"}, []int{2}},
		{"numeric search matches number and text columns", domain.ContractFilter{SearchString: "17"}, []int{17, 3}},
		{"numeric search without number match", domain.ContractFilter{SearchString: "4711"}, []int{3}},
		{"no match", domain.ContractFilter{SearchString: "nothing"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.GetList(ctx, tt.filter)
			require.NoError(t, err)
			numbers := make([]int, 0, len(list))
			for _, c := range list {
				numbers = append(numbers, c.Number)
			}
			assert.Equal(t, tt.want, numbers)
		})
	}

	years, err := repo.GetYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023, 2022, 2021}, years)

	maxNumber, err := repo.MaxNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 17, maxNumber)

	byNumber, err := repo.GetByNumber(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Softwarelizenz", byNumber.Title)
}

func TestContractRepository_ListDueBetween(t *testing.T) {
	ctx := context.Background()
	repo := NewContractRepository(newTestDao(t))

	_, err := repo.Insert(ctx, &domain.Contract{Number: 1, Date: day(2024, 1, 1), Title: "a", DueDate: dayPtr(2024, 5, 2)})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, &domain.Contract{Number: 2, Date: day(2024, 1, 1), Title: "b", ResubmissionOnDate: dayPtr(2024, 5, 2)})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, &domain.Contract{Number: 3, Date: day(2024, 1, 1), Title: "c", DueDate: dayPtr(2024, 5, 3)})
	require.NoError(t, err)

	list, err := repo.ListDueBetween(ctx, day(2024, 5, 2), day(2024, 5, 3))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Number)
	assert.Equal(t, 2, list[1].Number)
}

func TestBaseRepository_GetYearsEmpty(t *testing.T) {
	repo := NewOutgoingMailRepository(newTestDao(t))
	years, err := repo.GetYears(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{}, years)
}

func TestBaseRepository_Select(t *testing.T) {
	ctx := context.Background()
	repo := NewOutgoingMailRepository(newTestDao(t))

	var ids []int64
	for i := 0; i < selectChunk+20; i++ {
		id, err := repo.Insert(ctx, &domain.OutgoingMail{
			Date:     day(2024, 1, 1),
			Receiver: fmt.Sprintf("receiver %d", i),
			Content:  "content",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := repo.Select(ctx, append(ids, 123456))
	require.NoError(t, err)
	assert.Len(t, got, len(ids))

	got, err = repo.Select(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMailRepository_Filter(t *testing.T) {
	ctx := context.Background()
	repo := NewIncomingMailRepository(newTestDao(t))

	for _, m := range []*domain.IncomingMail{
		{Date: day(2024, 1, 15), Sender: "Finanzamt", Content: "Bescheid", Type: domain.MailTypeLetter},
		{Date: day(2024, 2, 3), Sender: "Stadtwerke", Content: "Rechnung"},
		{Date: day(2023, 2, 3), Sender: "finanzamt Nord", Content: "Mahnung"},
	} {
		_, err := repo.Insert(ctx, m)
		require.NoError(t, err)
	}

	list, err := repo.GetList(ctx, domain.MailListFilter{Year: 2024, Month: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Stadtwerke", list[0].Sender)

	list, err = repo.GetList(ctx, domain.MailListFilter{Year: 2024})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// 没有年份时忽略月份
	list, err = repo.GetList(ctx, domain.MailListFilter{Month: 2})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = repo.GetList(ctx, domain.MailListFilter{SearchString: "FINANZAMT"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	values, err := repo.GetAutocompletion(ctx, "sender", "finanz")
	require.NoError(t, err)
	assert.Equal(t, []string{"Finanzamt", "finanzamt Nord"}, values)

	_, err = repo.GetAutocompletion(ctx, "content", "x")
	var unknown *domain.ErrUnknownProperty
	assert.ErrorAs(t, err, &unknown)
}

func TestBaseRepository_AutocompletionLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewOutgoingMailRepository(newTestDao(t))
	for i := 0; i < AutocompleteLimit+5; i++ {
		for j := 0; j < 2; j++ {
			_, err := repo.Insert(ctx, &domain.OutgoingMail{
				Date:     day(2024, 1, 1),
				Receiver: fmt.Sprintf("Kunde %02d", i),
				Content:  "c",
			})
			require.NoError(t, err)
		}
	}
	values, err := repo.GetAutocompletion(ctx, "receiver", "kunde")
	require.NoError(t, err)
	assert.Len(t, values, AutocompleteLimit)
	assert.Equal(t, "Kunde 00", values[0])
}

func TestVisitorbookRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitorbookRepository(newTestDao(t))

	v := &domain.Visitorbook{
		Firstname:        "Erika",
		Lastname:         "Mustermann",
		Company:          "Beispiel KG",
		VisitorType:      domain.VisitorTypeVisitor,
		ContactPersonIDs: []int64{3, 5},
		Entries: []*domain.VisitorbookEntry{
			{DateOfVisit: day(2023, 11, 2), Arrived: "09:00", Departed: "11:30"},
			{DateOfVisit: day(2024, 4, 8), Arrived: "10:15"},
		},
	}
	id, err := repo.Insert(ctx, v)
	require.NoError(t, err)

	other := &domain.Visitorbook{
		Lastname: "Schmidt",
		Entries:  []*domain.VisitorbookEntry{{DateOfVisit: day(2024, 4, 9), Arrived: "08:00", Departed: "09:00"}},
	}
	_, err = repo.Insert(ctx, other)
	require.NoError(t, err)

	got, err := repo.Find(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{3, 5}, got.ContactPersonIDs)
	require.Len(t, got.Entries, 2)
	assert.True(t, got.Entries[0].DateOfVisit.Equal(day(2024, 4, 8)), "entries newest first")
	assert.True(t, got.IsActive())

	active, err := repo.GetList(ctx, domain.VisitorbookFilter{ShowOnlyActiveEntries: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)

	inRange, err := repo.GetList(ctx, domain.VisitorbookFilter{StartTime: dayPtr(2024, 4, 9), EndTime: dayPtr(2024, 4, 9)})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "Schmidt", inRange[0].Lastname)

	years, err := repo.GetYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023}, years)

	// 删除旧的来访记录，登记离开时间，更换联系人
	got.Entries = got.Entries[:1]
	got.Entries[0].Departed = "12:00"
	got.ContactPersonIDs = []int64{7}
	modified, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, modified)

	updated, err := repo.Find(ctx, id)
	require.NoError(t, err)
	require.Len(t, updated.Entries, 1)
	assert.Equal(t, "12:00", updated.Entries[0].Departed)
	assert.Equal(t, []int64{7}, updated.ContactPersonIDs)
	assert.False(t, updated.IsActive())
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(newTestDao(t))

	entries := []*domain.HistoryEntry{
		{EntityType: domain.EntityContract, EntityID: 1, UID: 2, Property: "title", OldValue: "a", NewValue: "b"},
		{EntityType: domain.EntityContract, EntityID: 1, UID: 2, Property: "status", OldValue: "draft", NewValue: "signed"},
		{EntityType: domain.EntityContract, EntityID: 2, UID: 2, Property: "title", OldValue: "x", NewValue: "y"},
	}
	require.NoError(t, repo.Create(ctx, entries))
	assert.NotZero(t, entries[0].ID)
	assert.False(t, entries[0].CreatedAt.IsZero())

	list, err := repo.ListByEntity(ctx, domain.EntityContract, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "status", list[0].Property)

	require.NoError(t, repo.Create(ctx, nil))
}

func TestUserRepositories(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	users := NewUserRepository(d)
	prefs := NewUserPrefRepository(d)

	u, err := users.Create(ctx, &domain.User{Username: "kai", Email: "kai@example.org", Password: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, u.UID)

	byName, err := users.GetByUsername(ctx, "kai")
	require.NoError(t, err)
	assert.Equal(t, u.UID, byName.UID)

	_, err = users.GetByEmail(ctx, "nobody@example.org")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, users.UpdatePassword(ctx, "newhash", u.UID))
	byUID, err := users.GetByUID(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", byUID.Password)

	list, err := users.GetByUIDs(ctx, []int64{u.UID, 999})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = prefs.Get(ctx, u.UID, domain.EntityContract)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, prefs.Save(ctx, &domain.UserPref{UID: u.UID, ListKey: domain.EntityContract, Value: []byte(`{"year":2024}`)}))
	require.NoError(t, prefs.Save(ctx, &domain.UserPref{UID: u.UID, ListKey: domain.EntityContract, Value: []byte(`{"year":2023}`)}))
	p, err := prefs.Get(ctx, u.UID, domain.EntityContract)
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2023}`, string(p.Value))

	require.NoError(t, prefs.Delete(ctx, u.UID, domain.EntityContract))
	_, err = prefs.Get(ctx, u.UID, domain.EntityContract)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
