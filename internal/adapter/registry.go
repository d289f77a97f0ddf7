package adapter

import (
	"fmt"

	"TicketSync/internal/interfaces"
	"TicketSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Factory registry: vendor packages register themselves from init, the sync
// service builds instances for whatever the config enables.
var factoryRegistry = make(map[model.Vendor]interfaces.Factory)

// Register stores a vendor's adapter factory. Called from the vendor
// packages' init functions.
func Register(vendor model.Vendor, factory interfaces.Factory) {
	if factory == nil {
		panic(fmt.Sprintf("nil adapter factory for vendor %s", vendor))
	}
	if _, exists := factoryRegistry[vendor]; exists {
		logrus.Warnf("adapter factory for %s already registered, overriding", vendor)
	}
	factoryRegistry[vendor] = factory
}

// GetFactory returns the factory registered for a vendor.
func GetFactory(vendor model.Vendor) (interfaces.Factory, bool) {
	factory, ok := factoryRegistry[vendor]
	return factory, ok
}

// ListFactories lists every vendor with a registered factory.
func ListFactories() []model.Vendor {
	var vendors []model.Vendor
	for v := range factoryRegistry {
		vendors = append(vendors, v)
	}
	return vendors
}
