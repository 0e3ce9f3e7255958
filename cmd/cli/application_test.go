package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/hubpull/cmd/cli"
)

const (
	testManifestFileNameConstant      = "hub.yaml"
	testConfigurationFileNameConstant = "settings.yaml"
	testWorktreeEnvironmentConstant   = "HUBPULL_TOOLS_PLAN_WORKTREE"
	testDefaultRefEnvironmentConstant = "HUBPULL_TOOLS_PLAN_DEFAULT_REF"
	testManifestContentConstant       = `components:
  - name: foo
    source:
      dir: vendor/foo
      git:
        remote: https://example.com/a/b
        ref: main
        subDir: lib
`
	testSharedRemoteManifestContentConstant = `components:
  - name: widgets
    source:
      dir: vendor/widgets
      git:
        remote: https://example.com/ui/kit
        subDir: widgets
  - name: icons
    source:
      dir: assets/icons
      git:
        remote: https://example.com/ui/kit
        subDir: icons
`
	testExpectedPlanTemplateConstant = `set -xe

# add upstream remotes
if ! git remote | grep -E '^example-com-a-b$'; then
	git remote add example-com-a-b https://example.com/a/b; fi

# fetch upstream branches with updates
git fetch example-com-a-b main

# need a worktree for subtree split
if ! git worktree list | grep -E '%[1]s '; then
	git worktree add %[1]s --detach; fi
pushd %[1]s

# extract components sources from subdirectories into ` + "`split`" + ` branches
git checkout -B upstream/example-com-a-b-main example-com-a-b/main
git subtree split --prefix=lib -b split/foo
popd

# stash worktree before subtree merge
git stash save -a

# merge ` + "`split`" + ` branches
git subtree merge --squash -m 'foo updates' --prefix=vendor/foo split/foo
git stash pop
`
)

func writeFile(testInstance *testing.T, directory string, fileName string, content string) string {
	testInstance.Helper()

	filePath := filepath.Join(directory, fileName)
	require.NoError(testInstance, os.WriteFile(filePath, []byte(content), 0o600))
	return filePath
}

// changeDirectory switches the working directory for the test and restores it on cleanup (testing.T.Chdir requires Go 1.24).
func changeDirectory(testInstance *testing.T, directory string) {
	testInstance.Helper()

	originalDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	require.NoError(testInstance, os.Chdir(directory))
	testInstance.Cleanup(func() {
		require.NoError(testInstance, os.Chdir(originalDirectory))
	})
}

func executeApplication(testInstance *testing.T, arguments ...string) (string, error) {
	testInstance.Helper()

	application := cli.NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.Command().SetOut(outputBuffer)
	application.Command().SetErr(&bytes.Buffer{})
	application.Command().SetArgs(arguments)

	executionError := application.Execute()
	return outputBuffer.String(), executionError
}

func expectedPlan(worktreePath string) string {
	return fmt.Sprintf(testExpectedPlanTemplateConstant, worktreePath)
}

func TestApplicationPrintsPlan(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        func(manifestPath string) []string
		expectedWorktree string
	}{
		{
			name: "manifest_argument_with_default_worktree",
			arguments: func(manifestPath string) []string {
				return []string{manifestPath}
			},
			expectedWorktree: "/tmp/w1",
		},
		{
			name: "manifest_and_worktree_arguments",
			arguments: func(manifestPath string) []string {
				return []string{manifestPath, "/var/tmp/hub-split"}
			},
			expectedWorktree: "/var/tmp/hub-split",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			changeDirectory(testInstance, testInstance.TempDir())
			manifestPath := writeFile(testInstance, testInstance.TempDir(), testManifestFileNameConstant, testManifestContentConstant)

			output, executionError := executeApplication(testInstance, testCase.arguments(manifestPath)...)
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, expectedPlan(testCase.expectedWorktree), output)
		})
	}
}

func TestApplicationUsesDefaultManifestInWorkingDirectory(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	writeFile(testInstance, workingDirectory, testManifestFileNameConstant, testManifestContentConstant)
	changeDirectory(testInstance, workingDirectory)

	output, executionError := executeApplication(testInstance)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, expectedPlan("/tmp/w1"), output)
}

func TestApplicationHonorsConfigurationFileAndEnvironment(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	changeDirectory(testInstance, workingDirectory)
	manifestPath := writeFile(testInstance, workingDirectory, testManifestFileNameConstant, testManifestContentConstant)

	configurationContent := "tools:\n  plan:\n    manifest: " + manifestPath + "\n    worktree: /srv/scratch\n"
	configurationPath := writeFile(testInstance, testInstance.TempDir(), testConfigurationFileNameConstant, configurationContent)

	output, executionError := executeApplication(testInstance, "--config", configurationPath)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, expectedPlan("/srv/scratch"), output)

	testInstance.Setenv(testWorktreeEnvironmentConstant, "/srv/from-environment")
	environmentOutput, environmentError := executeApplication(testInstance, "--config", configurationPath)
	require.NoError(testInstance, environmentError)
	require.Equal(testInstance, expectedPlan("/srv/from-environment"), environmentOutput)

	argumentOutput, argumentError := executeApplication(testInstance, "--config", configurationPath, manifestPath, "/srv/from-argument")
	require.NoError(testInstance, argumentError)
	require.Equal(testInstance, expectedPlan("/srv/from-argument"), argumentOutput)
}

func TestApplicationCollapseCheckoutsAndDefaultRef(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	changeDirectory(testInstance, workingDirectory)
	manifestPath := writeFile(testInstance, workingDirectory, testManifestFileNameConstant, testSharedRemoteManifestContentConstant)
	configurationPath := writeFile(testInstance, workingDirectory, testConfigurationFileNameConstant, "tools:\n  plan:\n    collapse_checkouts: true\n")
	testInstance.Setenv(testDefaultRefEnvironmentConstant, "trunk")

	output, executionError := executeApplication(testInstance, "--config", configurationPath, manifestPath)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "git fetch example-com-ui-kit trunk\n")
	require.Equal(testInstance, 1, bytes.Count([]byte(output), []byte("git checkout -B upstream/example-com-ui-kit-trunk example-com-ui-kit/trunk")))
	require.Equal(testInstance, 2, bytes.Count([]byte(output), []byte("git subtree split ")))
}

func TestApplicationErrors(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments func(directory string) []string
	}{
		{
			name: "missing_manifest",
			arguments: func(directory string) []string {
				return []string{filepath.Join(directory, "absent.yaml")}
			},
		},
		{
			name: "invalid_manifest",
			arguments: func(directory string) []string {
				return []string{writeFile(testInstance, directory, testManifestFileNameConstant, "components: [unterminated\n")}
			},
		},
		{
			name: "malformed_remote",
			arguments: func(directory string) []string {
				return []string{writeFile(testInstance, directory, testManifestFileNameConstant, "components:\n  - name: bad\n    source:\n      dir: vendor/bad\n      git:\n        remote: https:///no-host\n")}
			},
		},
		{
			name: "too_many_arguments",
			arguments: func(directory string) []string {
				return []string{"hub.yaml", "/tmp/w1", "extra"}
			},
		},
		{
			name: "unsupported_log_level",
			arguments: func(directory string) []string {
				return []string{"--log-level", "verbose", writeFile(testInstance, directory, testManifestFileNameConstant, testManifestContentConstant)}
			},
		},
		{
			name: "missing_configuration_file",
			arguments: func(directory string) []string {
				return []string{"--config", filepath.Join(directory, "absent-config.yaml")}
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			directory := testInstance.TempDir()
			changeDirectory(testInstance, directory)

			output, executionError := executeApplication(testInstance, testCase.arguments(directory)...)
			require.Error(testInstance, executionError)
			require.Empty(testInstance, output)
		})
	}
}

func TestEmbeddedDefaultConfiguration(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: &configuration})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(viperInstance.AllSettings()))

	require.Equal(testInstance, cli.DefaultPlanConfiguration(), configuration.Tools.Plan)
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)

	configurationData[0] = '#'
	freshData, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, byte('#'), freshData[0])
}
