package hub

import "go.uber.org/zap"

const (
	manifestLoadedMessageConstant      = "manifest loaded"
	planCompiledMessageConstant        = "plan compiled"
	logFieldManifestPathConstant       = "manifest_path"
	logFieldWorktreePathConstant       = "worktree_path"
	logFieldComponentCountConstant     = "components"
	logFieldSkippedCountConstant       = "skipped_components"
	logFieldRemoteCountConstant        = "remotes"
	logFieldRemoteBranchesConstant     = "remote_branches"
	logFieldSplitCountConstant         = "splits"
	logFieldSingleCountConstant        = "singles"
	logFieldPlanLineCountConstant      = "plan_lines"
	logFieldManifestEntryCountConstant = "manifest_entries"
)

// Compiler runs the full pipeline from manifest file to plan.
type Compiler struct {
	Loader     ManifestLoader
	Normalizer Normalizer
	Emitter    PlanEmitter
	Logger     *zap.Logger
}

// NewCompiler wires a Compiler; a nil loader reads manifests from disk and a nil logger discards diagnostics.
func NewCompiler(loader ManifestLoader, normalizer Normalizer, emitter PlanEmitter, logger *zap.Logger) Compiler {
	if loader == nil {
		loader = NewFileManifestLoader()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer.Logger == nil {
		normalizer.Logger = logger
	}
	return Compiler{Loader: loader, Normalizer: normalizer, Emitter: emitter, Logger: logger}
}

// Compile loads the manifest at manifestPath and produces its plan. Nothing is emitted when loading or naming fails.
func (compiler Compiler) Compile(manifestPath string) (Plan, error) {
	manifest, loadError := compiler.Loader.LoadManifest(manifestPath)
	if loadError != nil {
		return Plan{}, loadError
	}

	compiler.resolveLogger().Debug(
		manifestLoadedMessageConstant,
		zap.String(logFieldManifestPathConstant, manifestPath),
		zap.Int(logFieldManifestEntryCountConstant, len(manifest.Components)),
	)

	return compiler.CompileManifest(manifest)
}

// CompileManifest produces the plan for an already decoded manifest.
func (compiler Compiler) CompileManifest(manifest Manifest) (Plan, error) {
	sources := compiler.Normalizer.Normalize(manifest)
	partition := PartitionComponents(sources.Components)

	plan, emitError := compiler.Emitter.Emit(sources, partition)
	if emitError != nil {
		return Plan{}, emitError
	}

	compiler.resolveLogger().Info(
		planCompiledMessageConstant,
		zap.String(logFieldWorktreePathConstant, compiler.Emitter.WorktreePath),
		zap.Int(logFieldComponentCountConstant, len(sources.Components)),
		zap.Int(logFieldSkippedCountConstant, len(sources.Skipped)),
		zap.Int(logFieldRemoteCountConstant, len(sources.Remotes)),
		zap.Int(logFieldRemoteBranchesConstant, len(sources.RemoteBranches)),
		zap.Int(logFieldSplitCountConstant, len(partition.Splits)),
		zap.Int(logFieldSingleCountConstant, len(partition.Singles)),
		zap.Int(logFieldPlanLineCountConstant, len(plan.Lines)),
	)

	return plan, nil
}

func (compiler Compiler) resolveLogger() *zap.Logger {
	if compiler.Logger == nil {
		return zap.NewNop()
	}
	return compiler.Logger
}
