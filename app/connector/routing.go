package connector

import (
	"encoding/json"
	"strings"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
)

// straightThroughAlgorithm is the stored shape of a merchant's routing
// algorithm: a single pinned connector for now.
type straightThroughAlgorithm struct {
	Connector string `json:"connector"`
}

// ResolveDefault picks the connector for a merchant when the request and the
// prior attempt carry no explicit choice: a routing override from the request
// wins, then the merchant's stored routing algorithm, then the merchant's
// default connector.
func (r *Registry) ResolveDefault(merchant *entity.MerchantAccount, routingOverride *string) (string, error) {
	if routingOverride != nil {
		name, err := parseStraightThrough(*routingOverride)
		if err == nil && name != "" {
			return r.Get(name)
		}
	}

	if merchant.RoutingAlgorithm != nil {
		name, err := parseStraightThrough(*merchant.RoutingAlgorithm)
		if err == nil && name != "" {
			return r.Get(name)
		}
	}

	return r.Get(merchant.DefaultConnector)
}

func parseStraightThrough(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		// Bare connector name, not a JSON algorithm.
		return trimmed, nil
	}

	var algorithm straightThroughAlgorithm
	if err := json.Unmarshal([]byte(trimmed), &algorithm); err != nil {
		return "", err
	}
	return strings.TrimSpace(algorithm.Connector), nil
}
