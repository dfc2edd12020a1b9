package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCommandSubcommands(t *testing.T) {
	rootCmd := &cobra.Command{Use: "schemadoc"}
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newServeCommand())

	for _, want := range []string{"generate", "serve"} {
		cmd, _, err := rootCmd.Find([]string{want})
		if err != nil || cmd.Name() != want {
			t.Errorf("subcommand %q not registered: %v", want, err)
		}
	}
}

func TestGenerateCommandFlags(t *testing.T) {
	cmd := newGenerateCommand()

	for _, name := range []string{"source", "output", "format", "title", "id", "markdown", "tag", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}

	if got := cmd.Flags().Lookup("format").DefValue; got != "json" {
		t.Errorf("format default = %q, want json", got)
	}
}

func TestGenerateCommandHelp(t *testing.T) {
	cmd := newGenerateCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("help output empty")
	}
}
