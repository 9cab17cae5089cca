package order

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// mockStore is a Store whose calls all fail with error.
type mockStore struct {
	error error
}

func (m *mockStore) GetAll(_ context.Context) ([]Order, error) { return nil, m.error }

func (m *mockStore) GetByID(_ context.Context, _ string) (*Order, error) { return nil, m.error }

func (m *mockStore) Create(_ context.Context, _ Draft) (*Order, error) { return nil, m.error }

func (m *mockStore) Update(_ context.Context, _ Order) (*Order, error) { return nil, m.error }

func (m *mockStore) Delete(_ context.Context, _ string) (*Order, error) { return nil, m.error }

func statusPtr(s Status) *Status { return &s }

func Test_Recorder_Update(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name         string
		patch        Patch
		id           string
		expectErr    error
		expectStatus Status
		expectCity   string
	}{
		{
			name:         "Success - status",
			patch:        Patch{Status: statusPtr(StatusShipped)},
			expectStatus: StatusShipped,
		},
		{
			name:         "Success - shipping address",
			patch:        Patch{ShippingAddress: &Address{City: "Osaka"}},
			expectStatus: StatusConfirmed,
			expectCity:   "Osaka",
		},
		{
			name:      "Error - unknown status",
			patch:     Patch{Status: statusPtr("lost")},
			expectErr: apperrors.ErrInvalidStatus,
		},
		{
			name:      "Error - unknown order",
			id:        "42",
			patch:     Patch{Status: statusPtr(StatusShipped)},
			expectErr: apperrors.ErrOrderNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			ctx := context.Background()
			r := NewRecorder(NewMemoryStore())
			r.now = func() time.Time { return fixed }
			created, err := r.Create(ctx, draft("a@b.io"))
			require.NoError(t, err)
			id := created.ID
			if tc.id != "" {
				id = tc.id
			}

			// when
			updated, err := r.Update(ctx, id, tc.patch)

			// then
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				stored, _ := r.GetByID(ctx, created.ID)
				assert.Nil(t, stored.UpdatedAt, "failed update leaves the order untouched")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectStatus, updated.Status)
			assert.Equal(t, tc.expectCity, updated.ShippingAddress.City)
			require.NotNil(t, updated.UpdatedAt)
			assert.Equal(t, fixed, *updated.UpdatedAt)
			assert.Equal(t, created.CreatedAt, updated.CreatedAt)
			assert.Equal(t, created.Number, updated.Number)
		})
	}
}

func Test_Recorder_Find(t *testing.T) {
	// given
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())
	a, _ := r.Create(ctx, draft("Ann@Example.com"))
	_, _ = r.Create(ctx, draft("bob@example.com"))
	c, _ := r.Create(ctx, draft("ann@example.com"))
	_, err := r.Update(ctx, c.ID, Patch{Status: statusPtr(StatusCancelled)})
	require.NoError(t, err)

	// when
	byEmail, err := r.FindByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	cancelled, err := r.FindByStatus(ctx, StatusCancelled)
	require.NoError(t, err)
	shipped, err := r.FindByStatus(ctx, StatusShipped)
	require.NoError(t, err)
	all, err := r.FindAll(ctx)
	require.NoError(t, err)

	// then
	require.Len(t, byEmail, 2)
	assert.Equal(t, a.ID, byEmail[0].ID)
	assert.Equal(t, c.ID, byEmail[1].ID)
	require.Len(t, cancelled, 1)
	assert.Equal(t, c.ID, cancelled[0].ID)
	require.NotNil(t, shipped)
	assert.Empty(t, shipped)
	assert.Len(t, all, 3)
}

func Test_Recorder_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())
	created, _ := r.Create(ctx, draft("a@b.io"))

	removed, err := r.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = r.Delete(ctx, created.ID)
	require.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	_, err = r.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func Test_Recorder_StoreErrors(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("store is down")
	r := NewRecorder(&mockStore{error: storeErr})

	_, err := r.Create(ctx, draft("a@b.io"))
	require.ErrorIs(t, err, storeErr)
	_, err = r.FindByEmail(ctx, "a@b.io")
	require.ErrorIs(t, err, storeErr)
	_, err = r.Update(ctx, "1000", Patch{})
	require.ErrorIs(t, err, storeErr)
}

func Test_Recorder_CountsCreatedOrders(t *testing.T) {
	// given
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	ctx := context.Background()
	r := NewRecorder(NewMemoryStore())

	// when
	_, _ = r.Create(ctx, draft("a@b.io"))
	_, _ = r.Create(ctx, draft("a@b.io"))

	// then
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "orders_created" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total)
}

func Test_ParseStatus(t *testing.T) {
	for _, s := range []string{"confirmed", "processing", "shipped", "delivered", "cancelled"} {
		st, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), st)
	}
	_, err := ParseStatus("Shipped")
	require.ErrorIs(t, err, apperrors.ErrMalformed)
}

func Test_Attributes(t *testing.T) {
	attrs := Attributes(&Order{ID: "1000", Status: StatusConfirmed, Items: make([]Item, 2)})

	require.Len(t, attrs, 3)
	assert.Equal(t, "1000", attrs[0].Value.AsString())
	assert.Equal(t, int64(2), attrs[2].Value.AsInt64())
}
