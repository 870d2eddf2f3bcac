package assessment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "github.com/yanqian/growth-monitor/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAssessBatchKeepsOrderAndItemErrors(t *testing.T) {
	svc := newTestService(t, nil)

	items, err := svc.AssessBatch(context.Background(), []Profile{
		{ID: "a", Name: "Sari", Gender: "female", AgeMonths: intPtr(24), WeightKg: 8.0, HeightCm: 78},
		{ID: "b", Name: "Budi", Gender: "male", AgeMonths: intPtr(72), WeightKg: 20, HeightCm: 110},
		{Name: "Dewi", Gender: "female", AgeMonths: intPtr(12), WeightKg: 9, HeightCm: 74},
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.Equal(t, "a", items[0].ID)
	require.NotNil(t, items[0].Result)
	require.Nil(t, items[0].Error)
	require.Equal(t, "Sari", items[0].Result.Name)

	require.Equal(t, "b", items[1].ID)
	require.Nil(t, items[1].Result)
	require.Equal(t, apperrors.CodeInvalidInput, items[1].Error.Code)

	require.NotEmpty(t, items[2].ID)
	require.Equal(t, "Dewi", items[2].Result.Name)
}

func TestAssessBatchLimits(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.AssessBatch(context.Background(), nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	oversized := make([]Profile, 11)
	_, err = svc.AssessBatch(context.Background(), oversized)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestAssessBatchCanceled(t *testing.T) {
	svc := newTestService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AssessBatch(ctx, []Profile{
		{Name: "Sari", Gender: "female", AgeMonths: intPtr(24), WeightKg: 8.0, HeightCm: 78},
	})
	require.ErrorIs(t, err, context.Canceled)
}
