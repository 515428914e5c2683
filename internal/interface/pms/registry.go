package pms

import (
	"sort"
	"strings"
	"sync"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/internal/infrastructure/httpclient"
	"disputeshield-service/pkg/logger"
	"disputeshield-service/pkg/metrics"
)

// VendorInfo is static per-vendor capability metadata, available
// without constructing a live adapter.
type VendorInfo struct {
	Type           string          `json:"type"`
	DisplayName    string          `json:"displayName"`
	Category       string          `json:"category"`
	AuthType       entity.AuthType `json:"authType"`
	WebhookSupport bool            `json:"webhookSupport"`
	Features       []string        `json:"features"`
}

// Builder constructs an adapter instance from a config
type Builder func(cfg Config) (adapter.PMSAdapter, error)

type registryEntry struct {
	info  VendorInfo
	build Builder
}

// Registry maps case-insensitive vendor type keys to adapter
// constructors and their capability metadata.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
	deps    deps
}

// NewRegistry creates a registry with every built-in vendor registered
func NewRegistry(log logger.Logger, m *metrics.Metrics, factory *httpclient.Factory) *Registry {
	r := &Registry{
		entries: make(map[string]registryEntry),
		deps:    deps{factory: factory, logger: log, metrics: m},
	}
	for _, p := range builtinProfiles() {
		r.registerProfile(p)
	}
	return r
}

func builtinProfiles() []profile {
	return []profile{
		operaProfile,
		mewsProfile,
		hostawayProfile,
		lodgifyProfile,
		maestroProfile,
		hotelogixProfile,
		protelProfile,
		stayntouchProfile,
	}
}

func (r *Registry) registerProfile(p profile) {
	features := []string{"reservations", "folio", "guest_profiles", "rates", "notes"}
	if p.webhookSupport {
		features = append(features, "webhooks")
	}
	info := VendorInfo{
		Type:           p.vendor,
		DisplayName:    p.displayName,
		Category:       p.category,
		AuthType:       p.authType,
		WebhookSupport: p.webhookSupport,
		Features:       features,
	}
	prof := p
	r.Register(info, func(cfg Config) (adapter.PMSAdapter, error) {
		return newRESTAdapter(prof, cfg, r.deps)
	})
}

// Register adds or replaces a vendor at runtime
func (r *Registry) Register(info VendorInfo, build Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[strings.ToLower(info.Type)] = registryEntry{info: info, build: build}
}

// CreateAdapter resolves a vendor type (case-insensitive) and builds an
// adapter instance bound to the given credentials.
func (r *Registry) CreateAdapter(pmsType string, cfg Config) (adapter.PMSAdapter, error) {
	r.mu.RLock()
	entry, ok := r.entries[strings.ToLower(strings.TrimSpace(pmsType))]
	r.mu.RUnlock()
	if !ok {
		return nil, &adapter.UnsupportedVendorError{
			Requested: pmsType,
			Supported: r.SupportedVendors(),
		}
	}
	return entry.build(cfg)
}

// VendorInfo returns the static metadata for a vendor type
func (r *Registry) VendorInfo(pmsType string) (VendorInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[strings.ToLower(strings.TrimSpace(pmsType))]
	return entry.info, ok
}

// SupportedVendors lists every registered vendor type, sorted
func (r *Registry) SupportedVendors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
