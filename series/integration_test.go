package series

import (
	"context"
	"testing"
	"time"

	"github.com/agridash/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateLabels(t *testing.T) {
	cases := []struct {
		start, end string
		wantStart  string
		wantEnd    string
	}{
		{"2024-03-01", "2024-03-10", "03/01", "03/10"},
		{"2023-12-20", "2024-01-05", "2023/12/20", "2024/01/05"},
	}
	for _, tc := range cases {
		start, err := time.Parse("2006-01-02", tc.start)
		require.NoError(t, err)
		end, err := time.Parse("2006-01-02", tc.end)
		require.NoError(t, err)

		labels := FormatDateLabels(start, end)
		assert.Equal(t, tc.wantStart, labels.Start)
		assert.Equal(t, tc.wantEnd, labels.End)
	}
}

func TestIntegrationInit(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{
		1: {Stats: map[string]float64{"this_term": 30}},
	}}
	builder := NewIntegrationBuilder(repo)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	options, labels, err := builder.Init(context.Background(), twoPartitions(), nil, start, end)
	require.NoError(t, err)

	require.Len(t, options, 1, "partitions without data are dropped")
	assert.Equal(t, uint(1), options[0].Type.ID)
	assert.Equal(t, "03/01", labels.Start)
	assert.Equal(t, "03/10", labels.End)

	for _, call := range repo.calls {
		assert.Equal(t, "integration", call.method)
		assert.True(t, call.toInit)
	}
}

func TestIntegrationUpdate(t *testing.T) {
	repo := &fakeRepo{options: map[uint]Option{
		1: {Stats: map[string]float64{"2023": 28}},
	}}
	builder := NewIntegrationBuilder(repo)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	option, err := builder.Update(context.Background(), models.Type{ID: 1}, nil, nil, start, end)
	require.NoError(t, err)
	require.NotNil(t, option)
	assert.Equal(t, uint(1), option.Type.ID)
	assert.False(t, repo.calls[0].toInit)

	// A type without data answers nil, not an error.
	option, err = builder.Update(context.Background(), models.Type{ID: 2}, nil, nil, start, end)
	require.NoError(t, err)
	assert.Nil(t, option)
}
