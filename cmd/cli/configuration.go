package cli

import (
	"strings"

	"github.com/temirov/hubpull/internal/hub"
)

const (
	defaultManifestPathConstant            = "hub.yaml"
	planManifestConfigurationKeyConstant   = "manifest"
	planWorktreeConfigurationKeyConstant   = "worktree"
	planDefaultRefConfigurationKeyConstant = "default_ref"
	planCollapseConfigurationKeyConstant   = "collapse_checkouts"
	configurationKeySeparatorConstant      = "."
)

// PlanConfiguration describes configuration values for plan generation.
type PlanConfiguration struct {
	ManifestPath      string `mapstructure:"manifest"`
	WorktreePath      string `mapstructure:"worktree"`
	DefaultRef        string `mapstructure:"default_ref"`
	CollapseCheckouts bool   `mapstructure:"collapse_checkouts"`
}

// DefaultPlanConfiguration returns baseline configuration values for plan generation.
func DefaultPlanConfiguration() PlanConfiguration {
	return PlanConfiguration{
		ManifestPath:      defaultManifestPathConstant,
		WorktreePath:      hub.DefaultWorktreePath,
		DefaultRef:        hub.DefaultRef,
		CollapseCheckouts: false,
	}
}

// DefaultPlanConfigurationValues produces Viper defaults for plan generation rooted at rootKey.
func DefaultPlanConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultPlanConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + planManifestConfigurationKeyConstant:   defaults.ManifestPath,
		rootKey + configurationKeySeparatorConstant + planWorktreeConfigurationKeyConstant:   defaults.WorktreePath,
		rootKey + configurationKeySeparatorConstant + planDefaultRefConfigurationKeyConstant: defaults.DefaultRef,
		rootKey + configurationKeySeparatorConstant + planCollapseConfigurationKeyConstant:   defaults.CollapseCheckouts,
	}
}

// Sanitize trims values and restores defaults for blank ones.
func (configuration PlanConfiguration) Sanitize() PlanConfiguration {
	defaults := DefaultPlanConfiguration()
	sanitized := configuration

	sanitized.ManifestPath = strings.TrimSpace(configuration.ManifestPath)
	if len(sanitized.ManifestPath) == 0 {
		sanitized.ManifestPath = defaults.ManifestPath
	}

	sanitized.WorktreePath = strings.TrimSpace(configuration.WorktreePath)
	if len(sanitized.WorktreePath) == 0 {
		sanitized.WorktreePath = defaults.WorktreePath
	}

	sanitized.DefaultRef = strings.TrimSpace(configuration.DefaultRef)
	if len(sanitized.DefaultRef) == 0 {
		sanitized.DefaultRef = defaults.DefaultRef
	}

	return sanitized
}

// WithArguments applies the optional positional manifest and worktree arguments over configured values.
func (configuration PlanConfiguration) WithArguments(arguments []string) PlanConfiguration {
	resolved := configuration
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		resolved.ManifestPath = strings.TrimSpace(arguments[0])
	}
	if len(arguments) > 1 && len(strings.TrimSpace(arguments[1])) > 0 {
		resolved.WorktreePath = strings.TrimSpace(arguments[1])
	}
	return resolved
}
