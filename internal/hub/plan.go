package hub

import (
	"fmt"
	"strings"
)

const (
	// DefaultWorktreePath is the scratch worktree used for subtree splits when none is configured.
	DefaultWorktreePath = "/tmp/w1"

	planLineSeparatorConstant = "\n"

	failFastDirectiveConstant         = "set -xe"
	remotesSectionHeaderConstant      = "\n# add upstream remotes"
	fetchSectionHeaderConstant        = "\n# fetch upstream branches with updates"
	worktreeSectionHeaderConstant     = "\n# need a worktree for subtree split"
	splitSectionHeaderConstant        = "\n# extract components sources from subdirectories into `split` branches"
	stashSectionHeaderConstant        = "\n# stash worktree before subtree merge"
	splitMergeSectionHeaderConstant   = "\n# merge `split` branches"
	singleMergeSectionHeaderConstant  = "\n# merge changes from repositiories with component source on top level"
	addRemoteTemplateConstant         = "if ! git remote | grep -E '^%[1]s$'; then\n\tgit remote add %[1]s %[2]s; fi"
	fetchTemplateConstant             = "git fetch %s %s"
	addWorktreeTemplateConstant       = "if ! git worktree list | grep -E '%[1]s '; then\n\tgit worktree add %[1]s --detach; fi"
	enterWorktreeTemplateConstant     = "pushd %s"
	leaveWorktreeCommandConstant      = "popd"
	checkoutTemplateConstant          = "git checkout -B %s %s"
	subtreeSplitTemplateConstant      = "git subtree split --prefix=%s -b %s"
	subtreeMergeTemplateConstant      = "git subtree merge --squash -m '%s updates' --prefix=%s %s"
	stashSaveCommandConstant          = "git stash save -a"
	stashPopCommandConstant           = "git stash pop"
	planEmissionErrorTemplateConstant = "unable to plan component %q: %w"
)

// Plan is the ordered list of shell lines synchronizing components into the local repository.
type Plan struct {
	Lines []string
}

// String joins the plan lines into the script text.
func (plan Plan) String() string {
	return strings.Join(plan.Lines, planLineSeparatorConstant)
}

// PlanEmitter turns normalized sources into a Plan.
type PlanEmitter struct {
	WorktreePath string
	// CollapseCheckouts skips re-checking out a staging branch that the previous split already checked out.
	CollapseCheckouts bool
}

// NewPlanEmitter constructs a PlanEmitter; an empty worktreePath falls back to DefaultWorktreePath.
func NewPlanEmitter(worktreePath string, collapseCheckouts bool) PlanEmitter {
	return PlanEmitter{WorktreePath: worktreePath, CollapseCheckouts: collapseCheckouts}
}

// Emit assembles the plan: remotes, fetches, optional split section, then stash-wrapped merges.
func (emitter PlanEmitter) Emit(sources Sources, partition Partition) (Plan, error) {
	worktreePath := strings.TrimSpace(emitter.WorktreePath)
	if len(worktreePath) == 0 {
		worktreePath = DefaultWorktreePath
	}

	lines := []string{failFastDirectiveConstant}

	lines = append(lines, remotesSectionHeaderConstant)
	for _, remote := range sources.Remotes {
		remoteName, nameError := RemoteName(remote)
		if nameError != nil {
			return Plan{}, nameError
		}
		lines = append(lines, fmt.Sprintf(addRemoteTemplateConstant, remoteName, remote))
	}

	lines = append(lines, fetchSectionHeaderConstant)
	for _, remoteBranch := range sources.RemoteBranches {
		remoteName, nameError := RemoteName(remoteBranch.Remote)
		if nameError != nil {
			return Plan{}, nameError
		}
		lines = append(lines, fmt.Sprintf(fetchTemplateConstant, remoteName, remoteBranch.Ref))
	}

	if len(partition.Splits) > 0 {
		splitLines, splitError := emitter.splitSection(worktreePath, partition.Splits)
		if splitError != nil {
			return Plan{}, splitError
		}
		lines = append(lines, splitLines...)
	}

	lines = append(lines, stashSectionHeaderConstant, stashSaveCommandConstant)

	if len(partition.Splits) > 0 {
		lines = append(lines, splitMergeSectionHeaderConstant)
		for _, component := range partition.Splits {
			lines = append(lines, fmt.Sprintf(subtreeMergeTemplateConstant, component.Name, component.Dir, SplitBranchName(component.Name)))
		}
	}

	if len(partition.Singles) > 0 {
		lines = append(lines, singleMergeSectionHeaderConstant)
		for _, component := range partition.Singles {
			remoteBranchName, nameError := RemoteBranchName(component.Remote, component.Ref)
			if nameError != nil {
				return Plan{}, fmt.Errorf(planEmissionErrorTemplateConstant, component.Name, nameError)
			}
			lines = append(lines, fmt.Sprintf(subtreeMergeTemplateConstant, component.Dir, component.Dir, remoteBranchName))
		}
	}

	lines = append(lines, stashPopCommandConstant)

	return Plan{Lines: lines}, nil
}

func (emitter PlanEmitter) splitSection(worktreePath string, splits []Component) ([]string, error) {
	lines := []string{
		worktreeSectionHeaderConstant,
		fmt.Sprintf(addWorktreeTemplateConstant, worktreePath),
		fmt.Sprintf(enterWorktreeTemplateConstant, worktreePath),
		splitSectionHeaderConstant,
	}

	checkedOutBranch := ""
	for _, component := range splits {
		localBranchName, localNameError := LocalBranchName(component.Remote, component.Ref)
		if localNameError != nil {
			return nil, fmt.Errorf(planEmissionErrorTemplateConstant, component.Name, localNameError)
		}
		remoteBranchName, remoteNameError := RemoteBranchName(component.Remote, component.Ref)
		if remoteNameError != nil {
			return nil, fmt.Errorf(planEmissionErrorTemplateConstant, component.Name, remoteNameError)
		}

		splitCommand := fmt.Sprintf(subtreeSplitTemplateConstant, component.SubDir, SplitBranchName(component.Name))
		if emitter.CollapseCheckouts && localBranchName == checkedOutBranch {
			lines = append(lines, splitCommand)
			continue
		}

		checkoutCommand := fmt.Sprintf(checkoutTemplateConstant, localBranchName, remoteBranchName)
		lines = append(lines, checkoutCommand+planLineSeparatorConstant+splitCommand)
		checkedOutBranch = localBranchName
	}

	lines = append(lines, leaveWorktreeCommandConstant)
	return lines, nil
}
