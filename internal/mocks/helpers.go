package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockRegistryGatewayForTest creates a new mock RegistryGateway for testing
func NewMockRegistryGatewayForTest(t *testing.T) *MockRegistryGateway {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockRegistryGateway(ctrl)
}

// NewMockCommerceGatewayForTest creates a new mock CommerceGateway for testing
func NewMockCommerceGatewayForTest(t *testing.T) *MockCommerceGateway {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockCommerceGateway(ctrl)
}
