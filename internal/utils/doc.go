// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses ConfigurationLoader (Viper with embedded defaults and environment
// overrides), LoggerFactory (zap diagnostics on stderr), and FlushingWriter,
// which delivers the generated plan to stdout in a single write.
package utils
