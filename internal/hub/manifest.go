package hub

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestPathRequiredMessageConstant = "manifest path must be provided"
	manifestReadMessageConstant         = "failed to read manifest"
	manifestParseMessageConstant        = "failed to parse manifest"
	manifestLoadErrorTemplateConstant   = "%s %s: %v"
	manifestNameKeyConstant             = "name"
	manifestSourceKeyConstant           = "source"
	manifestDirKeyConstant              = "dir"
	manifestGitKeyConstant              = "git"
	manifestRemoteKeyConstant           = "remote"
	manifestRefKeyConstant              = "ref"
	manifestSubDirKeyConstant           = "subDir"
	yamlNullTagConstant                 = "!!null"
)

// Manifest is the decoded hub manifest. Every field is optional at this stage; completeness is decided by the Normalizer.
type Manifest struct {
	Components []ManifestComponent `yaml:"components"`
}

// ManifestComponent is one entry of the manifest components list.
type ManifestComponent struct {
	Name   string          `yaml:"name"`
	Source *ManifestSource `yaml:"source"`
}

// ManifestSource describes where a component lives locally and upstream.
type ManifestSource struct {
	Dir string     `yaml:"dir"`
	Git *GitSource `yaml:"git"`
}

// GitSource locates a component inside an upstream git repository.
type GitSource struct {
	Remote string `yaml:"remote"`
	Ref    string `yaml:"ref"`
	SubDir string `yaml:"subDir"`
}

// UnmarshalYAML decodes a component entry. Entries or fields of the wrong shape decode as missing so the Normalizer can exclude them.
func (component *ManifestComponent) UnmarshalYAML(node *yaml.Node) error {
	entries := mappingEntries(node)
	*component = ManifestComponent{Name: scalarText(entries[manifestNameKeyConstant])}

	sourceNode := entries[manifestSourceKeyConstant]
	if mappingEntries(sourceNode) == nil {
		return nil
	}

	component.Source = &ManifestSource{}
	return component.Source.UnmarshalYAML(sourceNode)
}

// UnmarshalYAML decodes a component source, treating mismatched fields as missing.
func (source *ManifestSource) UnmarshalYAML(node *yaml.Node) error {
	entries := mappingEntries(node)
	*source = ManifestSource{Dir: scalarText(entries[manifestDirKeyConstant])}

	gitNode := entries[manifestGitKeyConstant]
	if mappingEntries(gitNode) == nil {
		return nil
	}

	source.Git = &GitSource{}
	return source.Git.UnmarshalYAML(gitNode)
}

// UnmarshalYAML decodes the upstream location, treating mismatched fields as missing.
func (gitSource *GitSource) UnmarshalYAML(node *yaml.Node) error {
	entries := mappingEntries(node)
	*gitSource = GitSource{
		Remote: scalarText(entries[manifestRemoteKeyConstant]),
		Ref:    scalarText(entries[manifestRefKeyConstant]),
		SubDir: scalarText(entries[manifestSubDirKeyConstant]),
	}
	return nil
}

// mappingEntries indexes the values of a mapping node by key; it returns nil for any other node.
func mappingEntries(node *yaml.Node) map[string]*yaml.Node {
	resolvedNode := resolveAlias(node)
	if resolvedNode == nil || resolvedNode.Kind != yaml.MappingNode {
		return nil
	}

	entries := make(map[string]*yaml.Node, len(resolvedNode.Content)/2)
	for keyIndex := 0; keyIndex+1 < len(resolvedNode.Content); keyIndex += 2 {
		entries[resolvedNode.Content[keyIndex].Value] = resolvedNode.Content[keyIndex+1]
	}
	return entries
}

func scalarText(node *yaml.Node) string {
	resolvedNode := resolveAlias(node)
	if resolvedNode == nil || resolvedNode.Kind != yaml.ScalarNode || resolvedNode.ShortTag() == yamlNullTagConstant {
		return ""
	}
	return resolvedNode.Value
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// ManifestLoader provides decoded manifests.
type ManifestLoader interface {
	LoadManifest(manifestPath string) (Manifest, error)
}

// ManifestLoadError reports a manifest that could not be read or decoded.
type ManifestLoadError struct {
	Path    string
	Message string
	Cause   error
}

// Error describes the load failure.
func (loadError ManifestLoadError) Error() string {
	return fmt.Sprintf(manifestLoadErrorTemplateConstant, loadError.Message, loadError.Path, loadError.Cause)
}

// Unwrap exposes the underlying read or decode failure.
func (loadError ManifestLoadError) Unwrap() error {
	return loadError.Cause
}

// FileManifestLoader reads YAML manifests from the filesystem.
type FileManifestLoader struct{}

// NewFileManifestLoader constructs a filesystem-backed manifest loader.
func NewFileManifestLoader() FileManifestLoader {
	return FileManifestLoader{}
}

// LoadManifest reads and decodes the manifest at manifestPath.
func (loader FileManifestLoader) LoadManifest(manifestPath string) (Manifest, error) {
	trimmedPath := strings.TrimSpace(manifestPath)
	if len(trimmedPath) == 0 {
		return Manifest{}, ManifestLoadError{Path: manifestPath, Message: manifestReadMessageConstant, Cause: errors.New(manifestPathRequiredMessageConstant)}
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Manifest{}, ManifestLoadError{Path: trimmedPath, Message: manifestReadMessageConstant, Cause: readError}
	}

	return DecodeManifest(trimmedPath, contentBytes)
}

// DecodeManifest decodes YAML manifest content; sourceName only labels errors. Only YAML syntax errors and a
// components value that is not a list fail; malformed entries decode as incomplete components.
func DecodeManifest(sourceName string, contentBytes []byte) (Manifest, error) {
	var manifest Manifest
	if unmarshalError := yaml.Unmarshal(contentBytes, &manifest); unmarshalError != nil {
		return Manifest{}, ManifestLoadError{Path: sourceName, Message: manifestParseMessageConstant, Cause: unmarshalError}
	}
	return manifest, nil
}
