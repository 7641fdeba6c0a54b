package vat_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxbridge/taxbridge-api/internal/client/registry"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/mocks"
	"github.com/taxbridge/taxbridge-api/internal/vat"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

func TestValidator_BadFormatShortCircuits(t *testing.T) {
	gateway := mocks.NewMockRegistryGatewayForTest(t)
	// No Check expectation: a format failure must never reach the registry.

	validator := vat.NewValidator(vat.NewCache(), gateway)
	_, err := validator.Validate(context.Background(), "XX1")

	assert.ErrorIs(t, err, vat.ErrBadFormat)
}

func TestValidator_ValidOutcomeCached(t *testing.T) {
	gateway := mocks.NewMockRegistryGatewayForTest(t)
	gateway.EXPECT().
		Check(gomock.Any(), "DE123456789").
		Return(&registry.CheckResult{VatNumber: "DE123456789", CountryCode: "DE", ChecksumValid: true}, nil).
		Times(1)

	validator := vat.NewValidator(vat.NewCache(), gateway)
	ctx := context.Background()

	first, err := validator.Validate(ctx, "DE123456789")
	require.NoError(t, err)
	assert.True(t, first.Valid())

	// Second call for the same identifier, differently cased, must be served
	// from the cache without another registry round trip.
	second, err := validator.Validate(ctx, " de123456789 ")
	require.NoError(t, err)
	assert.True(t, second.Valid())
	assert.Equal(t, first.Payload, second.Payload)
}

func TestValidator_InvalidOutcomeCached(t *testing.T) {
	gateway := mocks.NewMockRegistryGatewayForTest(t)
	gateway.EXPECT().
		Check(gomock.Any(), "DE999999999").
		Return(&registry.CheckResult{VatNumber: "DE999999999", ChecksumValid: false}, nil).
		Times(1)

	validator := vat.NewValidator(vat.NewCache(), gateway)
	ctx := context.Background()

	outcome, err := validator.Validate(ctx, "DE999999999")
	require.NoError(t, err)
	assert.False(t, outcome.Valid())

	outcome, err = validator.Validate(ctx, "DE999999999")
	require.NoError(t, err)
	assert.False(t, outcome.Valid())
}

func TestValidator_TransientErrorNotCached(t *testing.T) {
	gateway := mocks.NewMockRegistryGatewayForTest(t)
	gomock.InOrder(
		gateway.EXPECT().
			Check(gomock.Any(), "DE123456789").
			Return(nil, registry.ErrUnavailable),
		gateway.EXPECT().
			Check(gomock.Any(), "DE123456789").
			Return(&registry.CheckResult{VatNumber: "DE123456789", ChecksumValid: true}, nil),
	)

	validator := vat.NewValidator(vat.NewCache(), gateway)
	ctx := context.Background()

	_, err := validator.Validate(ctx, "DE123456789")
	assert.ErrorIs(t, err, registry.ErrUnavailable)

	// The failure must not poison the cache; the retry reaches the registry
	// and settles a valid outcome.
	outcome, err := validator.Validate(ctx, "DE123456789")
	require.NoError(t, err)
	assert.True(t, outcome.Valid())
}

func TestValidator_ConcurrentRequestsShareOneCall(t *testing.T) {
	gateway := mocks.NewMockRegistryGatewayForTest(t)

	release := make(chan struct{})
	gateway.EXPECT().
		Check(gomock.Any(), "DE123456789").
		DoAndReturn(func(ctx context.Context, vatID string) (*registry.CheckResult, error) {
			<-release
			return &registry.CheckResult{VatNumber: vatID, ChecksumValid: true}, nil
		}).
		Times(1)

	validator := vat.NewValidator(vat.NewCache(), gateway)
	ctx := context.Background()

	const goroutines = 8
	var wg sync.WaitGroup
	outcomes := make([]vat.Outcome, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = validator.Validate(ctx, "DE123456789")
		}(i)
	}

	close(release)
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		assert.True(t, outcomes[i].Valid())
	}
}

func TestValidator_ContextCancelledWhileWaiting(t *testing.T) {
	gateway := mocks.NewMockRegistryGatewayForTest(t)

	started := make(chan struct{})
	release := make(chan struct{})
	gateway.EXPECT().
		Check(gomock.Any(), "DE123456789").
		DoAndReturn(func(ctx context.Context, vatID string) (*registry.CheckResult, error) {
			close(started)
			<-release
			return &registry.CheckResult{VatNumber: vatID, ChecksumValid: true}, nil
		}).
		Times(1)

	validator := vat.NewValidator(vat.NewCache(), gateway)

	go func() {
		_, _ = validator.Validate(context.Background(), "DE123456789")
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := validator.Validate(ctx, "DE123456789")
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}
