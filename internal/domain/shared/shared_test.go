package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Product not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", err), ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "Product not found", err.Error())
}

func TestDomainError_OnField(t *testing.T) {
	base := NewDomainError("INVALID_PHONE", "Phone number must be exactly 11 digits")
	scoped := base.OnField("alternative_phone")

	assert.Empty(t, base.Field)
	assert.Equal(t, "alternative_phone", scoped.Field)
	assert.ErrorIs(t, scoped, base)
	assert.Equal(t, "phone", NewFieldError("phone", "INVALID_PHONE", "x").Field)
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       int
	}{
		{"first page", 1, 20, 0},
		{"third page", 3, 10, 20},
		{"zero page", 0, 10, 0},
		{"no page size", 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageOffset(tt.page, tt.size))
		})
	}
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(21), p.Total)

	empty := NewPaginated([]int{}, 0, 1, 0)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0, DefaultGridPageSize)
	assert.Equal(t, 1, page)
	assert.Equal(t, 24, size)

	page, size = NormalizePage(3, 1000, DefaultPageSize)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageSize, size)

	assert.Equal(t, 48, PageOffset(3, 24))
	assert.Zero(t, PageOffset(-1, 24))
}

func TestNewPaginated_HasNext(t *testing.T) {
	assert.True(t, NewPaginated([]int{1}, 21, 2, 10).HasNext)
	assert.False(t, NewPaginated([]int{1}, 21, 3, 10).HasNext)
}

func TestSubmissionKey(t *testing.T) {
	assert.Equal(t, "guest:abc:key-1", SubmissionKey("guest:abc", " key-1 "))
	assert.NotEqual(t, SubmissionKey("user:1", "k"), SubmissionKey("user:2", "k"))
}

func TestEventSource_TakeEvents(t *testing.T) {
	root := NewEventSource()
	ev := NewBaseDomainEvent("order.placed", "Order", root.ID)
	root.Record(&ev)

	assert.Len(t, root.PendingEvents(), 1)
	pulled := root.TakeEvents()
	assert.Len(t, pulled, 1)
	assert.Empty(t, root.PendingEvents())
	assert.Empty(t, root.TakeEvents())
	assert.Equal(t, time.UTC, ev.OccurredAt().Location())
}
