package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	schemeSeparatorConstant             = "://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	queryDelimiterConstant              = "?"
	fileSchemeConstant                  = "file"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "remote url is required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	missingHostMessageConstant          = "remote url has no host"
	missingPathMessageConstant          = "remote url has no repository path"
)

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// RemoteLocation is the host and repository path of a git remote, regardless of the transport used to reach it.
type RemoteLocation struct {
	Scheme string
	Host   string
	Path   string
}

// QualifiedPath joins host and path the way remote names are derived from them.
func (location RemoteLocation) QualifiedPath() string {
	return location.Host + pathSeparatorConstant + location.Path
}

// ParseRemoteLocation extracts host and path from scheme URLs, scp-like remotes (user@host:owner/repo.git), and local paths.
// Hosts are lowercased. A URL query stays part of the path so remotes differing only by query keep distinct names.
func ParseRemoteLocation(remote string) (RemoteLocation, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeSeparatorConstant) {
		return parseSchemeRemote(trimmedRemote)
	}
	if isScpLikeRemote(trimmedRemote) {
		return parseScpLikeRemote(trimmedRemote)
	}

	return RemoteLocation{Path: trimmedRemote}, nil
}

func parseSchemeRemote(remote string) (RemoteLocation, error) {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if len(parsedURL.Host) == 0 && scheme != fileSchemeConstant {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: missingHostMessageConstant}
	}
	if len(strings.Trim(parsedURL.Path, pathSeparatorConstant)) == 0 {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: missingPathMessageConstant}
	}

	path := parsedURL.Path
	if len(parsedURL.RawQuery) > 0 {
		path += queryDelimiterConstant + parsedURL.RawQuery
	}

	return RemoteLocation{Scheme: scheme, Host: strings.ToLower(parsedURL.Host), Path: path}, nil
}

// isScpLikeRemote reports whether the remote uses git's [user@]host:path shorthand; a slash before the first colon means a local path.
func isScpLikeRemote(remote string) bool {
	colonIndex := strings.Index(remote, sshPathDelimiterConstant)
	if colonIndex <= 0 {
		return false
	}
	return !strings.Contains(remote[:colonIndex], pathSeparatorConstant)
}

func parseScpLikeRemote(remote string) (RemoteLocation, error) {
	hostAndPath := remote
	if userSplitIndex := strings.Index(remote, sshUserDelimiterConstant); userSplitIndex != -1 {
		hostAndPath = remote[userSplitIndex+1:]
	}

	pathSplitIndex := strings.Index(hostAndPath, sshPathDelimiterConstant)
	if pathSplitIndex <= 0 {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: missingHostMessageConstant}
	}

	host := hostAndPath[:pathSplitIndex]
	path := hostAndPath[pathSplitIndex+1:]
	if len(strings.Trim(path, pathSeparatorConstant)) == 0 {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: missingPathMessageConstant}
	}

	return RemoteLocation{Host: strings.ToLower(host), Path: path}, nil
}
