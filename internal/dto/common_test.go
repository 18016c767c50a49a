package dto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 10, 25)
	require.Equal(t, 2, meta.Page)
	require.Equal(t, 10, meta.PageSize)
	require.Equal(t, int64(25), meta.TotalItems)
	require.Equal(t, 3, meta.TotalPages, "partial trailing page still counts")

	meta = NewPaginationMeta(1, 10, 30)
	require.Equal(t, 3, meta.TotalPages)

	meta = NewPaginationMeta(1, 10, 0)
	require.Equal(t, 0, meta.TotalPages)
}
