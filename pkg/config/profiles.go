package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	ctrl "sigs.k8s.io/controller-runtime"

	rtv1 "github.com/critical-rt/rtresource-scaler/api/v1"
)

// DefaultProfileConfigMapName is the default name of the ConfigMap that
// stores per-namespace provisioning profiles.
const DefaultProfileConfigMapName = "rt-resource-profiles"

// Profile holds the provisioning defaults stamped onto an RTResource the
// first time the adapter creates it. On every later update these fields are
// re-read from the live object, so a profile only ever supplies initial
// values.
type Profile struct {
	// Namespace is the namespace this override applies to (only used in
	// override entries).
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	// CPU is the per-replica CPU requirement, e.g. "700m".
	CPU string `yaml:"cpu,omitempty" json:"cpu,omitempty"`

	// Memory is the per-replica memory requirement, e.g. "200Mi".
	Memory string `yaml:"memory,omitempty" json:"memory,omitempty"`

	// Criticality is the scheduler priority marker.
	Criticality int `yaml:"criticality,omitempty" json:"criticality,omitempty"`

	// Image is the container image reference.
	Image string `yaml:"image,omitempty" json:"image,omitempty"`
}

// Validate checks for invalid profile values.
func (p *Profile) Validate() error {
	if p.CPU != "" {
		if _, err := resource.ParseQuantity(p.CPU); err != nil {
			return fmt.Errorf("invalid cpu quantity %q: %w", p.CPU, err)
		}
	}
	if p.Memory != "" {
		if _, err := resource.ParseQuantity(p.Memory); err != nil {
			return fmt.Errorf("invalid memory quantity %q: %w", p.Memory, err)
		}
	}
	if p.Criticality < 0 {
		return fmt.Errorf("criticality must be >= 0, got %d", p.Criticality)
	}
	return nil
}

// IsZero reports whether the profile carries no values at all.
func (p Profile) IsZero() bool {
	return p.CPU == "" && p.Memory == "" && p.Image == "" && p.Criticality == 0
}

// Apply stamps the profile's values onto spec. Empty profile fields leave
// the corresponding spec field untouched.
func (p Profile) Apply(spec *rtv1.RTResourceSpec) {
	if p.CPU != "" {
		spec.CPU = p.CPU
	}
	if p.Memory != "" {
		spec.Memory = p.Memory
	}
	if p.Image != "" {
		spec.Image = p.Image
	}
	if p.Criticality != 0 {
		spec.Criticality = p.Criticality
	}
}

// Profiles maps a namespace to its provisioning profile. The empty key
// holds the global default.
type Profiles map[string]Profile

// For returns the profile for the given namespace, falling back to the
// global default. The second return is false when neither exists.
func (ps Profiles) For(namespace string) (Profile, bool) {
	if p, ok := ps[namespace]; ok {
		return p, true
	}
	p, ok := ps[""]
	return p, ok
}

// ParseProfileConfigMap parses provisioning profiles from a ConfigMap's
// data. The format:
//   - "default": global default profile for all namespaces
//   - "<override-name>": per-namespace profile carrying a namespace field
//
// Invalid entries are logged and skipped rather than failing the load.
func ParseProfileConfigMap(data map[string]string) Profiles {
	out := make(Profiles)
	if data == nil {
		return out
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var profile Profile
		if err := yaml.Unmarshal([]byte(data[key]), &profile); err != nil {
			ctrl.Log.Info("Failed to parse resource profile entry, skipping",
				"key", key,
				"error", err)
			continue
		}

		if err := profile.Validate(); err != nil {
			ctrl.Log.Info("Invalid resource profile entry, skipping",
				"key", key,
				"error", err)
			continue
		}

		if key == "default" {
			profile.Namespace = ""
			out[""] = profile
			continue
		}

		if profile.Namespace == "" {
			ctrl.Log.Info("Resource profile override has no namespace, skipping", "key", key)
			continue
		}
		out[profile.Namespace] = profile
	}
	return out
}

// ProfilesFromConfigMap parses profiles from a live ConfigMap object.
func ProfilesFromConfigMap(cm *corev1.ConfigMap) Profiles {
	if cm == nil {
		return make(Profiles)
	}
	return ParseProfileConfigMap(cm.Data)
}
