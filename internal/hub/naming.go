package hub

import (
	"fmt"

	"github.com/temirov/hubpull/internal/gitrepo"
)

const (
	remoteBranchNameTemplateConstant = "%s/%s"
	localBranchNameTemplateConstant  = "upstream/%s-%s"
	splitBranchNameTemplateConstant  = "split/%s"
	emptyRemoteNameMessageConstant   = "remote url does not produce a usable remote name"
	remoteNameErrorTemplateConstant  = "unable to derive remote name: %w"
)

// RemoteName derives the git remote name registered for a remote URL from its host and path.
func RemoteName(remote string) (string, error) {
	location, parseError := gitrepo.ParseRemoteLocation(remote)
	if parseError != nil {
		return "", fmt.Errorf(remoteNameErrorTemplateConstant, parseError)
	}

	name := Slugify(location.QualifiedPath())
	if len(name) == 0 {
		return "", fmt.Errorf(remoteNameErrorTemplateConstant, gitrepo.RemoteURLParseError{Input: remote, Message: emptyRemoteNameMessageConstant})
	}

	return name, nil
}

// RemoteBranchName is the ref git creates when fetching ref from the remote registered for remote.
func RemoteBranchName(remote string, ref string) (string, error) {
	remoteName, nameError := RemoteName(remote)
	if nameError != nil {
		return "", nameError
	}
	return fmt.Sprintf(remoteBranchNameTemplateConstant, remoteName, ref), nil
}

// LocalBranchName is the staging branch checked out in the worktree before a subtree split.
func LocalBranchName(remote string, ref string) (string, error) {
	remoteName, nameError := RemoteName(remote)
	if nameError != nil {
		return "", nameError
	}
	return fmt.Sprintf(localBranchNameTemplateConstant, remoteName, ref), nil
}

// SplitBranchName is the branch holding the extracted subdirectory history of a component.
func SplitBranchName(componentName string) string {
	return fmt.Sprintf(splitBranchNameTemplateConstant, Slugify(componentName))
}
