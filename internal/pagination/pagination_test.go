package pagination

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		want      Params
		wantField string
	}{
		{name: "defaults", want: Params{Page: 1, Limit: 10}},
		{name: "explicit", page: "3", limit: "5", want: Params{Page: 3, Limit: 5}},
		{name: "max limit", page: "1", limit: "50", want: Params{Page: 1, Limit: 50}},
		{name: "padded", page: " 2 ", limit: " 20", want: Params{Page: 2, Limit: 20}},
		{name: "limit over max", limit: "51", wantField: "limit"},
		{name: "limit zero", limit: "0", wantField: "limit"},
		{name: "page zero", page: "0", wantField: "page"},
		{name: "negative page", page: "-1", wantField: "page"},
		{name: "non-numeric page", page: "abc", wantField: "page"},
		{name: "non-numeric limit", limit: "ten", wantField: "limit"},
		{name: "page overflows offset", page: "9223372036854775807", limit: "50", wantField: "page"},
		{name: "page beyond int", page: "99999999999999999999", wantField: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.page, tt.limit)
			if tt.wantField != "" {
				var perr *Error
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, tt.wantField, perr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParams_SkipTake(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	assert.Equal(t, 20, p.Skip())
	assert.Equal(t, 10, p.Take())

	assert.Equal(t, 0, Default().Skip())
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		pages int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 50, 2},
	}

	for _, tt := range tests {
		meta := NewMeta(tt.total, Params{Page: 2, Limit: tt.limit})
		assert.Equal(t, tt.pages, meta.TotalPages, "total=%d limit=%d", tt.total, tt.limit)
		assert.Equal(t, tt.total, meta.Total)
		assert.Equal(t, 2, meta.Page)
		assert.Equal(t, tt.limit, meta.Limit)
	}
}

func TestParse_LargestPageKeepsOffsetInRange(t *testing.T) {
	page := math.MaxInt/50 + 1

	p, err := Parse(strconv.Itoa(page), "50")
	require.NoError(t, err)
	assert.Equal(t, (page-1)*50, p.Skip())
	assert.GreaterOrEqual(t, p.Skip(), 0)

	_, err = Parse(strconv.Itoa(page+1), "50")
	require.Error(t, err)
}
