// Rtl433 decodes 433 MHz sensor transmissions from demodulated bit
// captures.
//
// It reads captures in the {bitcount}hex row literal form, runs them
// through the registered decode cores, and emits decoded readings as
// JSON lines. The serve command additionally streams readings to
// WebSocket clients and an MQTT broker, and the monitor command shows
// a live terminal view of a running server's stream.
//
// Usage:
//
//	rtl433 [command] [flags]
//
// See 'rtl433 --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SergeyKa2021/rtl-433/internal/version"

	// Register the decode cores.
	_ "github.com/SergeyKa2021/rtl-433/internal/rst"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rtl433",
	Short: "433 MHz sensor frame decoder",
	Long: `Decode 433 MHz sensor transmissions from demodulated bit captures.

Captures are lines of {bitcount}hex row literals, one capture per line,
as produced by an OOK demodulator front end. Decoded readings come out
as JSON lines.

If no command is specified, captures are decoded from stdin.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: decode stdin when no subcommand provided
		return runDecode(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rtl433 %s (commit: %s)\n", version.Version, version.Commit)
	},
}
