package cache

// SettingsKey is the single cache key used for the business settings record.
const SettingsKey = "settings"

// Policy maps domain mutations to the cache-key patterns they must evict.
// List-query caches are keyed by serialized filter/page parameters, so a
// targeted delete cannot reach every cached variant; substring invalidation
// trades hit ratio for the guarantee that no stale list survives a mutation.
type Policy struct {
	store *Store
}

// NewPolicy binds an invalidation policy to a store.
func NewPolicy(store *Store) *Policy {
	return &Policy{store: store}
}

// InvalidateInvoices evicts invoice lists plus the aggregates derived from
// them, and returns the number of entries removed.
func (p *Policy) InvalidateInvoices() int {
	count := p.store.Invalidate("invoices")
	count += p.store.Invalidate("invoice-stats")
	count += p.store.Invalidate("dashboard-stats")
	return count
}

// InvalidateCustomers evicts every cached customers query variant.
func (p *Policy) InvalidateCustomers() int {
	return p.store.Invalidate("customers")
}

// InvalidateNotifications evicts every cached notifications query variant.
func (p *Policy) InvalidateNotifications() int {
	return p.store.Invalidate("notifications")
}

// InvalidateSettings evicts the settings entry.
func (p *Policy) InvalidateSettings() int {
	return p.store.Invalidate(SettingsKey)
}

// ClearAll empties the store.
func (p *Policy) ClearAll() {
	p.store.Clear()
}
