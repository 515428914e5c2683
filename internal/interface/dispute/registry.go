package dispute

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

// PortalInfo is static per-portal capability metadata
type PortalInfo struct {
	Type        string          `json:"type"`
	DisplayName string          `json:"displayName"`
	Network     string          `json:"network"`
	AuthType    entity.AuthType `json:"authType"`
	CE3Support  bool            `json:"ce3Support"`
	TC40Support bool            `json:"tc40Support"`
}

// Builder constructs a dispute adapter instance from a config
type Builder func(cfg Config) (adapter.DisputeAdapter, error)

type registryEntry struct {
	info  PortalInfo
	build Builder
}

// Registry maps case-insensitive portal type keys to adapter
// constructors and their capability metadata.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
	deps    deps
}

// NewRegistry creates a registry with the built-in portals registered
func NewRegistry(log logger.Logger, m *metrics.Metrics, factory *httpclient.Factory) *Registry {
	r := &Registry{
		entries: make(map[string]registryEntry),
		deps:    deps{factory: factory, logger: log, metrics: m},
	}
	r.Register(PortalInfo{
		Type:        "visa_vrol",
		DisplayName: "Visa Resolve Online",
		Network:     "visa",
		AuthType:    entity.AuthOAuth2,
		CE3Support:  true,
		TC40Support: true,
	}, func(cfg Config) (adapter.DisputeAdapter, error) {
		return NewVROLAdapter(cfg, r.deps)
	})
	r.Register(PortalInfo{
		Type:        "mastercom",
		DisplayName: "Mastercard Mastercom",
		Network:     "mastercard",
		AuthType:    entity.AuthOAuth2,
	}, func(cfg Config) (adapter.DisputeAdapter, error) {
		return NewMastercomAdapter(cfg, r.deps)
	})
	return r
}

// Register adds or replaces a portal at runtime
func (r *Registry) Register(info PortalInfo, build Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[strings.ToLower(info.Type)] = registryEntry{info: info, build: build}
}

// CreateAdapter resolves a portal type (case-insensitive) and builds an
// adapter bound to the given credentials.
func (r *Registry) CreateAdapter(portalType string, cfg Config) (adapter.DisputeAdapter, error) {
	r.mu.RLock()
	entry, ok := r.entries[strings.ToLower(strings.TrimSpace(portalType))]
	r.mu.RUnlock()
	if !ok {
		return nil, &adapter.UnsupportedVendorError{
			Requested: portalType,
			Supported: r.SupportedPortals(),
		}
	}
	return entry.build(cfg)
}

// PortalInfo returns the static metadata for a portal type
func (r *Registry) PortalInfo(portalType string) (PortalInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[strings.ToLower(strings.TrimSpace(portalType))]
	return entry.info, ok
}

// SupportedPortals lists every registered portal type, sorted
func (r *Registry) SupportedPortals() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
