package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fahmidurshanto/custom-cms/pkg/errors"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
)

func newVendorController(records []models.Record) *ListController[models.Record] {
	lc := NewListController(10, NewRecordAdapter(vendorSchema(), "_id").Fields)
	lc.SetCollection(records)
	return lc
}

func keys(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID("_id")
	}
	return out
}

func TestListController_TwelveVendorsScenario(t *testing.T) {
	records := vendors(12)
	records[6]["name"] = "Kings College"
	lc := newVendorController(records)

	lc.SetFilter("")
	assert.Equal(t, 2, lc.PageCount())
	assert.Equal(t, 1, lc.Page())
	assert.Equal(t, []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8", "v9", "v10"}, keys(lc.VisibleSlice()))

	lc.SetPage(2)
	assert.Equal(t, []string{"v11", "v12"}, keys(lc.VisibleSlice()))

	lc.SetFilter("Kings")
	assert.Equal(t, 1, lc.PageCount())
	assert.Equal(t, 1, lc.Page())
	assert.Equal(t, []string{"v7"}, keys(lc.VisibleSlice()))
}

func TestListController_FilterCorrectness(t *testing.T) {
	records := []models.Record{
		{"_id": "a", "name": "Kings", "tags": []interface{}{"north", "east"}},
		{"_id": "b", "name": "Queens", "fee": float64(1.5)},
		{"_id": "c", "name": "Dukes", "address": map[string]interface{}{"city": "LEEDS"}},
		{"_id": "d", "name": "Earls", "active": true},
		{"_id": "kings-id", "name": "Barons"},
	}
	lc := newVendorController(records)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"a", "b", "c", "d", "kings-id"}},
		{"KINGS", []string{"a", "kings-id"}},
		{"east", []string{"a"}},
		{"1.5", []string{"b"}},
		{"leeds", []string{"c"}},
		{"true", []string{"d"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("q=%q", tt.query), func(t *testing.T) {
			lc.SetFilter(tt.query)
			assert.Equal(t, tt.want, keys(lc.Filtered()))
			assert.Equal(t, len(tt.want), lc.Total())
		})
	}
}

func TestListController_PaginationBounds(t *testing.T) {
	for _, size := range []int{10, 20, 50} {
		for _, total := range []int{0, 1, 9, 10, 11, 20, 49, 50, 51, 101} {
			t.Run(fmt.Sprintf("size=%d total=%d", size, total), func(t *testing.T) {
				lc := newVendorController(vendors(total))
				require.NoError(t, lc.SetPageSize(size))

				want := (total + size - 1) / size
				if want < 1 {
					want = 1
				}
				assert.Equal(t, want, lc.PageCount())

				seen := 0
				for p := 1; p <= lc.PageCount(); p++ {
					lc.SetPage(p)
					slice := lc.VisibleSlice()
					assert.LessOrEqual(t, len(slice), size)
					seen += len(slice)
				}
				assert.Equal(t, total, seen)

				lc.SetPage(lc.PageCount() + 5)
				assert.Equal(t, lc.PageCount(), lc.Page())
				lc.SetPage(-3)
				assert.Equal(t, 1, lc.Page())
			})
		}
	}
}

func TestListController_ResetOnChange(t *testing.T) {
	lc := newVendorController(vendors(45))

	lc.SetPage(3)
	require.Equal(t, 3, lc.Page())
	lc.SetFilter("Vendor")
	assert.Equal(t, 1, lc.Page())

	lc.SetPage(4)
	require.Equal(t, 4, lc.Page())
	require.NoError(t, lc.SetPageSize(20))
	assert.Equal(t, 1, lc.Page())

	lc.SetPage(2)
	lc.SetCollection(vendors(45))
	assert.Equal(t, 1, lc.Page())
}

func TestListController_RejectsUnknownPageSize(t *testing.T) {
	lc := newVendorController(vendors(30))
	lc.SetPage(2)

	err := lc.SetPageSize(25)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 10, lc.PageSize())
	assert.Equal(t, 2, lc.Page())
}

func TestListController_ClampsAfterShrink(t *testing.T) {
	lc := newVendorController(vendors(25))
	lc.SetPage(3)
	require.Equal(t, 3, lc.Page())

	// The filter resets the page; a direct shrink of the stored page is
	// still clamped on read.
	lc.page = 3
	lc.filter = "Vendor 1"
	assert.Equal(t, 2, lc.PageCount())
	assert.Equal(t, 2, lc.Page())
	assert.NotEmpty(t, lc.VisibleSlice())
}

func TestListController_IdentityStability(t *testing.T) {
	lc := newVendorController(vendors(15))
	lc.SetPage(2)

	first := keys(lc.VisibleSlice())
	second := keys(lc.VisibleSlice())
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"v11", "v12", "v13", "v14", "v15"}, first)
}

func TestListController_SnapshotIsCopied(t *testing.T) {
	records := vendors(2)
	lc := newVendorController(records)
	records[0] = models.Record{"_id": "x"}

	assert.Equal(t, []string{"v1", "v2"}, keys(lc.Collection()))
}

func TestListController_Window(t *testing.T) {
	lc := newVendorController(vendors(23))
	assert.Equal(t, "Showing 1 to 10 of 23 entries", lc.Window().String())

	lc.SetPage(3)
	assert.Equal(t, PageWindow{From: 21, To: 23, Total: 23}, lc.Window())

	lc.SetFilter("nothing matches")
	assert.Equal(t, "Showing 0 to 0 of 0 entries", lc.Window().String())
}
