package hub

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultRef is the upstream ref tracked when a component omits git.ref.
	DefaultRef = "master"

	skipReasonMissingNameConstant   = "missing name"
	skipReasonMissingDirConstant    = "missing source.dir"
	skipReasonMissingRemoteConstant = "missing source.git.remote"
	componentSkippedMessageConstant = "component excluded from plan"
	logFieldComponentIndexConstant  = "component_index"
	logFieldComponentNameConstant   = "component_name"
	logFieldSkipReasonConstant      = "reason"
)

// Component is a complete component descriptor ready for planning.
type Component struct {
	Name   string
	Dir    string
	Remote string
	Ref    string
	SubDir string
}

// HasSubDir reports whether the component is sourced from a subdirectory of its remote.
func (component Component) HasSubDir() bool {
	return len(component.SubDir) > 0
}

// RemoteBranch identifies a single ref of a single remote.
type RemoteBranch struct {
	Remote string
	Ref    string
}

// SkippedComponent records a manifest entry excluded for missing required fields.
type SkippedComponent struct {
	Index  int
	Name   string
	Reason string
}

// Sources is the normalized manifest: complete components plus the remotes and remote branches they reference.
type Sources struct {
	Components     []Component
	Remotes        []string
	RemoteBranches []RemoteBranch
	Skipped        []SkippedComponent
}

// Normalizer filters incomplete manifest entries and deduplicates remotes and remote branches.
type Normalizer struct {
	DefaultRef string
	Logger     *zap.Logger
}

// NewNormalizer constructs a Normalizer; an empty defaultRef falls back to DefaultRef.
func NewNormalizer(defaultRef string, logger *zap.Logger) Normalizer {
	return Normalizer{DefaultRef: defaultRef, Logger: logger}
}

// Normalize converts manifest entries into component descriptors. Incomplete entries are dropped without error.
func (normalizer Normalizer) Normalize(manifest Manifest) Sources {
	logger := normalizer.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	defaultRef := strings.TrimSpace(normalizer.DefaultRef)
	if len(defaultRef) == 0 {
		defaultRef = DefaultRef
	}

	sources := Sources{Components: make([]Component, 0, len(manifest.Components))}
	remotes := newOrderedSet[string]()
	remoteBranches := newOrderedSet[RemoteBranch]()

	for componentIndex, manifestComponent := range manifest.Components {
		component, reason, complete := describeComponent(manifestComponent, defaultRef)
		if !complete {
			skipped := SkippedComponent{Index: componentIndex, Name: component.Name, Reason: reason}
			sources.Skipped = append(sources.Skipped, skipped)
			logger.Debug(
				componentSkippedMessageConstant,
				zap.Int(logFieldComponentIndexConstant, componentIndex),
				zap.String(logFieldComponentNameConstant, skipped.Name),
				zap.String(logFieldSkipReasonConstant, reason),
			)
			continue
		}

		sources.Components = append(sources.Components, component)
		remotes.Add(component.Remote)
		remoteBranches.Add(RemoteBranch{Remote: component.Remote, Ref: component.Ref})
	}

	sources.Remotes = remotes.Values()
	sources.RemoteBranches = remoteBranches.Values()

	return sources
}

func describeComponent(manifestComponent ManifestComponent, defaultRef string) (Component, string, bool) {
	component := Component{Name: strings.TrimSpace(manifestComponent.Name)}

	source := manifestComponent.Source
	if source != nil {
		component.Dir = strings.TrimSpace(source.Dir)
		if source.Git != nil {
			component.Remote = strings.TrimSpace(source.Git.Remote)
			component.Ref = strings.TrimSpace(source.Git.Ref)
			component.SubDir = strings.TrimSpace(source.Git.SubDir)
		}
	}

	if len(component.Ref) == 0 {
		component.Ref = defaultRef
	}

	switch {
	case len(component.Name) == 0:
		return component, skipReasonMissingNameConstant, false
	case len(component.Dir) == 0:
		return component, skipReasonMissingDirConstant, false
	case len(component.Remote) == 0:
		return component, skipReasonMissingRemoteConstant, false
	default:
		return component, "", true
	}
}
