package spawn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/geospawn/internal/model"
)

func TestCapacity_RemainingBudget(t *testing.T) {
	at := model.NewCoordinate(1.3521, 103.8198)

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"empty area", 0, 10},
		{"partially filled", 8, 2},
		{"exactly full", 10, 0},
		{"overshoot", 13, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.count = tt.count

			got, err := NewCapacity(store, 0.3, 10).RemainingBudget(context.Background(), at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []float64{300}, store.radii)
		})
	}
}

func TestCapacity_OracleError(t *testing.T) {
	at := model.NewCoordinate(1, 1)
	store := newFakeStore()
	store.countErr[at] = errStoreDown

	_, err := NewCapacity(store, 0.3, 10).RemainingBudget(context.Background(), at)
	assert.ErrorIs(t, err, errStoreDown)
}
