package cli

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/hubpull/internal/hub"
	"github.com/temirov/hubpull/internal/utils"
	pathutils "github.com/temirov/hubpull/internal/utils/path"
)

const (
	applicationUseConstant                  = "hubpull [manifest] [worktree]"
	applicationShortDescriptionConstant     = "Generate a git script that pulls hub components into this repository"
	applicationLongDescriptionConstant      = "hubpull reads a component manifest (default hub.yaml) and prints a shell script that registers upstream remotes, fetches them, extracts subdirectory histories in a scratch worktree (default /tmp/w1), and squash-merges every component into its directory. Pipe the output to a shell to apply it."
	maximumPositionalArgumentsConstant      = 2
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	toolsConfigurationKeyConstant           = "tools"
	planConfigurationKeyConstant            = toolsConfigurationKeyConstant + ".plan"
	environmentPrefixConstant               = "HUBPULL"
	configurationNameConstant               = "hubpull"
	configurationTypeConstant               = "yaml"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	planRequestedMessageConstant            = "generating plan"
	logFieldManifestPathConstant            = "manifest_path"
	logFieldWorktreePathConstant            = "worktree_path"
	logFieldDefaultRefConstant              = "default_ref"
	logFieldCollapseCheckoutsConstant       = "collapse_checkouts"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	planCompilationErrorTemplateConstant    = "unable to generate plan: %w"
	planOutputErrorTemplateConstant         = "unable to write plan: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds tool configuration sections.
type ApplicationToolsConfiguration struct {
	Plan PlanConfiguration `mapstructure:"plan"`
}

// Application wires the Cobra root command, configuration loader, structured logger, and plan compiler.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	homeExpander          *pathutils.HomeExpander
	manifestLoader        hub.ManifestLoader
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		homeExpander:        pathutils.NewHomeExpander(),
		manifestLoader:      hub.NewFileManifestLoader(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationUseConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.MaximumNArgs(maximumPositionalArgumentsConstant),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runPlan(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Command exposes the root command so callers can set arguments and output streams.
func (application *Application) Command() *cobra.Command {
	return application.rootCommand
}

// Execute runs the root command and flushes the logger.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range DefaultPlanConfigurationValues(planConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) runPlan(command *cobra.Command, arguments []string) error {
	planConfiguration := application.configuration.Tools.Plan.Sanitize().WithArguments(arguments)
	manifestPath := application.homeExpander.Expand(planConfiguration.ManifestPath)

	application.logger.Info(
		planRequestedMessageConstant,
		zap.String(logFieldManifestPathConstant, manifestPath),
		zap.String(logFieldWorktreePathConstant, planConfiguration.WorktreePath),
		zap.String(logFieldDefaultRefConstant, planConfiguration.DefaultRef),
		zap.Bool(logFieldCollapseCheckoutsConstant, planConfiguration.CollapseCheckouts),
	)

	compiler := hub.NewCompiler(
		application.manifestLoader,
		hub.NewNormalizer(planConfiguration.DefaultRef, application.logger),
		hub.NewPlanEmitter(planConfiguration.WorktreePath, planConfiguration.CollapseCheckouts),
		application.logger,
	)

	plan, compileError := compiler.Compile(manifestPath)
	if compileError != nil {
		return fmt.Errorf(planCompilationErrorTemplateConstant, compileError)
	}

	if writeError := utils.NewFlushingWriter(command.OutOrStdout()).WriteLine(plan.String()); writeError != nil {
		return fmt.Errorf(planOutputErrorTemplateConstant, writeError)
	}

	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
