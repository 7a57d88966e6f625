package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	if stdin == nil {
		stdin = &bytes.Buffer{}
	}
	cmd.SetIn(stdin)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "rdfpipe", cmd.Use)
	assert.Contains(t, cmd.Long, "@rdfs")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"run", "validate", "processors"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	for flag, short := range map[string]string{"input": "i", "output": "o"} {
		f := runCmd.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, short, f.Shorthand)
		assert.Equal(t, "-", f.DefValue)
	}
	for _, flag := range []string{"config", "tmp", "spill-threshold", "workers", "output-format"} {
		assert.NotNil(t, runCmd.Flags().Lookup(flag), flag)
	}
	assert.Equal(t, "jsonl", runCmd.Flags().Lookup("output-format").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, nil, "--format", "xml", "processors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestProcessorsCommand(t *testing.T) {
	stdout, _, err := execute(t, nil, "processors")
	require.NoError(t, err)
	for _, name := range []string{"@nop", "@count", "@prefix", "@rules", "@rdfs", "@smush", "@unique", "@stats", "@tbox", "@transform", "@script (@groovy)"} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "@unique [-m]")
}

func TestProcessorsCommand_JSON(t *testing.T) {
	stdout, _, err := execute(t, nil, "--format", "json", "processors")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status":"ok"`)
	assert.Contains(t, stdout, `"name":"transform"`)
	assert.Contains(t, stdout, `"aliases":["groovy"]`)
}
