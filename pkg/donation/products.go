package donation

// ProductIDs holds the external product identifiers for a project.
type ProductIDs struct {
	Monthly string
	Annual  string
}

// ProductIDsFor maps a project slug to its billing product identifiers.
// The mapping is deterministic and must never change for a given slug: the
// billing provider relies on it for idempotent product creation and the
// revenue aggregator for subscription ownership checks.
func ProductIDsFor(slug string) ProductIDs {
	return ProductIDs{
		Monthly: slug + "-monthly-donation",
		Annual:  slug + "-annual-donation",
	}
}

// ForFrequency returns the product identifier for the given frequency.
func (p ProductIDs) ForFrequency(freq Frequency) string {
	if freq == FrequencyAnnual {
		return p.Annual
	}
	return p.Monthly
}

// Contains reports whether the given product identifier belongs to this project.
func (p ProductIDs) Contains(productID string) bool {
	return productID == p.Monthly || productID == p.Annual
}
