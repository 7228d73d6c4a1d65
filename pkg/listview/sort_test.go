package listview

import (
	"slices"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type audit struct {
	Created time.Time `json:"created"`
}

type row struct {
	audit
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Number   int        `json:"number"`
	Deleted  bool       `json:"deleted"`
	ValidTo  *time.Time `json:"validUntil"`
	internal string
}

func TestComparator_Strings(t *testing.T) {
	rows := []row{{ID: 1, Title: "zebra"}, {ID: 2, Title: "Äpfel"}, {ID: 3, Title: "apfel"}, {ID: 4, Title: "Birne"}}

	compare, err := Comparator[row](SortSpec{Primary: SortParam{Property: "title", Ascending: true}})
	require.NoError(t, err)
	slices.SortStableFunc(rows, compare)

	var titles []string
	for _, r := range rows {
		titles = append(titles, r.Title)
	}
	// 德语排序：Ä 与 A 相邻，忽略大小写
	assert.Equal(t, []string{"apfel", "Äpfel", "Birne", "zebra"}, titles)
}

func TestComparator_SecondaryAndDescending(t *testing.T) {
	rows := []row{
		{ID: 1, Title: "b", Number: 1},
		{ID: 2, Title: "a", Number: 2},
		{ID: 3, Title: "c", Number: 1},
	}
	compare, err := Comparator[row](SortSpec{
		Primary:   SortParam{Property: "number", Ascending: false},
		Secondary: SortParam{Property: "Title", Ascending: true},
	})
	require.NoError(t, err)
	slices.SortStableFunc(rows, compare)

	assert.Equal(t, []int64{2, 1, 3}, []int64{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestComparator_NilFirstAndEmbedded(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)
	rows := []*row{
		{ID: 1, ValidTo: &later, audit: audit{Created: later}},
		{ID: 2, ValidTo: nil, audit: audit{Created: now}},
		nil,
		{ID: 3, ValidTo: &now, audit: audit{Created: now.Add(-time.Hour)}},
	}

	compare, err := Comparator[*row](SortSpec{Primary: SortParam{Property: "validUntil", Ascending: true}})
	require.NoError(t, err)
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, compare)
	assert.Nil(t, sorted[0])
	assert.Equal(t, int64(2), sorted[1].ID)
	assert.Equal(t, int64(3), sorted[2].ID)
	assert.Equal(t, int64(1), sorted[3].ID)

	compare, err = Comparator[*row](SortSpec{Primary: SortParam{Property: "created", Ascending: false}})
	require.NoError(t, err)
	sorted = slices.Clone(rows)
	slices.SortStableFunc(sorted, compare)
	assert.Equal(t, int64(1), sorted[0].ID)
	assert.Nil(t, sorted[3])
}

func TestValidateSort(t *testing.T) {
	assert.NoError(t, ValidateSort[row](SortSpec{}))
	assert.NoError(t, ValidateSort[row](SortSpec{Primary: SortParam{Property: "TITLE"}}))

	err := ValidateSort[row](SortSpec{Secondary: SortParam{Property: "internal"}})
	var unknown *ErrUnknownProperty
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "internal", unknown.Property)
}

func TestSortSpec_Params(t *testing.T) {
	s := SortSpec{Primary: SortParam{Property: "title"}, Secondary: SortParam{Property: "Title"}}
	assert.Len(t, s.Params(), 1)
	assert.True(t, SortSpec{}.IsZero())
}

// 排序结果对任意输入都是有序且稳定的
func TestProperty_ComparatorIsOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("sorted by number then id keeps ties in input order", prop.ForAll(
		func(numbers []int, asc bool) bool {
			rows := make([]row, len(numbers))
			for i, n := range numbers {
				rows[i] = row{ID: int64(i), Number: n}
			}
			compare, err := Comparator[row](SortSpec{Primary: SortParam{Property: "number", Ascending: asc}})
			if err != nil {
				return false
			}
			slices.SortStableFunc(rows, compare)
			for i := 1; i < len(rows); i++ {
				prev, cur := rows[i-1], rows[i]
				if prev.Number == cur.Number {
					if prev.ID > cur.ID {
						return false
					}
					continue
				}
				if asc != (prev.Number < cur.Number) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 20)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
