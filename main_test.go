package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	customerrors "agent-staffing/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func csvLines(out string) []string {
	return strings.Split(strings.TrimSpace(out), "\n")
}

func TestSolveCommand_SingleBucket(t *testing.T) {
	out, err := execute(t, "solve", "--load", "97.25", "--format", "csv")
	require.NoError(t, err)

	lines := csvLines(out)
	require.Len(t, lines, 2)
	assert.Equal(t, "00:00,97.25,6.483,8,0.4804,8,No", lines[1])
}

func TestSolveCommand_ClosedHours(t *testing.T) {
	out, err := execute(t, "solve", "--load", "97.25,0", "--closed-hours", "none", "--format", "csv")
	require.NoError(t, err)
	lines := csvLines(out)
	require.Len(t, lines, 3)
	assert.Equal(t, "00:00,97.25,6.483,8,0.4804,8,No", lines[1])
	assert.Equal(t, "01:00,0.00,0.000,0,0.0000,0,No", lines[2])

	out, err = execute(t, "solve", "--load", "97.25,97.25", "--closed-hours", "1", "--format", "csv")
	require.NoError(t, err)
	lines = csvLines(out)
	require.Len(t, lines, 3)
	assert.Equal(t, "01:00,97.25,6.483,0,0.0000,8,Yes", lines[2])

	_, err = execute(t, "solve", "--load", "97.25", "--closed-hours", "3")
	assert.ErrorIs(t, err, customerrors.ErrInvalidHour)
}

func TestSolveCommand_DefaultClosedHoursOnFullDay(t *testing.T) {
	loads := make([]string, 24)
	for h := range loads {
		loads[h] = "97.25"
	}

	out, err := execute(t, "solve", "--load", strings.Join(loads, ","), "--format", "csv")
	require.NoError(t, err)
	lines := csvLines(out)
	require.Len(t, lines, 25)
	assert.True(t, strings.HasSuffix(lines[1], ",0,0.0000,8,Yes"), lines[1])
	assert.True(t, strings.HasSuffix(lines[6], ",0,0.0000,8,Yes"), lines[6])
	assert.Equal(t, "06:00,97.25,6.483,8,0.4804,8,No", lines[7])
}

func TestSolveCommand_CeilingExceeded(t *testing.T) {
	_, err := execute(t, "solve", "--load", "10", "--service-rate", "1", "--target", "0.1", "--max-servers", "5")
	assert.ErrorIs(t, err, customerrors.ErrServerCeilingExceeded)
}
