package connector

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
)

func TestRegistryGet(t *testing.T) {
	registry := NewRegistry("stripe", "adyen")

	name, err := registry.Get("stripe")
	require.NoError(t, err)
	require.Equal(t, "stripe", name)

	_, err = registry.Get("bogus")
	require.ErrorIs(t, err, ErrConnectorNotSupported)
}

func TestResolveDefaultPrecedence(t *testing.T) {
	registry := NewRegistry("stripe", "adyen", "checkout")
	algorithm := `{"connector":"adyen"}`
	merchant := &entity.MerchantAccount{
		MerchantID:       "merchant_1",
		DefaultConnector: "stripe",
		RoutingAlgorithm: &algorithm,
	}

	override := `{"connector":"checkout"}`
	name, err := registry.ResolveDefault(merchant, &override)
	require.NoError(t, err)
	require.Equal(t, "checkout", name, "request override wins")

	name, err = registry.ResolveDefault(merchant, nil)
	require.NoError(t, err)
	require.Equal(t, "adyen", name, "merchant routing algorithm beats default")

	merchant.RoutingAlgorithm = nil
	name, err = registry.ResolveDefault(merchant, nil)
	require.NoError(t, err)
	require.Equal(t, "stripe", name, "falls back to merchant default connector")
}

func TestResolveDefaultBareNameOverride(t *testing.T) {
	registry := NewRegistry("stripe")
	merchant := &entity.MerchantAccount{MerchantID: "merchant_1", DefaultConnector: "stripe"}

	bare := "stripe"
	name, err := registry.ResolveDefault(merchant, &bare)
	require.NoError(t, err)
	require.Equal(t, "stripe", name)
}

func TestResolveDefaultUnsupportedConnector(t *testing.T) {
	registry := NewRegistry("stripe")
	merchant := &entity.MerchantAccount{MerchantID: "merchant_1", DefaultConnector: "adyen"}

	_, err := registry.ResolveDefault(merchant, nil)
	require.ErrorIs(t, err, ErrConnectorNotSupported)
}

func TestParseStraightThroughMalformedJSON(t *testing.T) {
	_, err := parseStraightThrough(`{"connector":`)
	require.Error(t, err)
}
