// Package cli constructs the hubpull command-line interface, wiring the Cobra
// root command, the layered configuration loader, structured diagnostics, and
// the plan compiler. The generated plan is the only thing written to stdout.
package cli
