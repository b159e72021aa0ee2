package commands

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		expected  []string
		expectErr bool
	}{
		{"plain words", "status bob confirmed", []string{"status", "bob", "confirmed"}, false},
		{"double quotes", `addVolunteer "Mary Jane" 555-0101`, []string{"addVolunteer", "Mary Jane", "555-0101"}, false},
		{"single quotes", `add 'Big Al' --date 2025-06-06`, []string{"add", "Big Al", "--date", "2025-06-06"}, false},
		{"empty quoted argument", `setMessage inviteFirstTime ""`, []string{"setMessage", "inviteFirstTime", ""}, false},
		{"extra spaces", "  show   --date  2025-06-06 ", []string{"show", "--date", "2025-06-06"}, false},
		{"unclosed quote", `add "Mary`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseCommandLine(tt.line)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestSessionCommands(t *testing.T) {
	root := &cobra.Command{Use: "gts"}
	root.AddCommand(
		&cobra.Command{Use: "show"},
		&cobra.Command{Use: "interactive"},
		&cobra.Command{Use: "build"},
	)

	commands := sessionCommands(root)
	assert.Len(t, commands, 2)
	assert.Contains(t, commands, "show")
	assert.Contains(t, commands, "build")
	assert.NotContains(t, commands, "interactive")
}

func TestRunSessionLine_ResetsFlags(t *testing.T) {
	var seen []string
	cmd := &cobra.Command{
		Use:  "show",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			seen = append(seen, date)
			return nil
		},
	}
	cmd.Flags().String("date", "", "")
	commands := map[string]*cobra.Command{"show": cmd}

	assert.False(t, runSessionLine(commands, "show --date 2025-06-06"))
	assert.False(t, runSessionLine(commands, "show"))
	assert.True(t, runSessionLine(commands, "exit"))

	assert.Equal(t, []string{"2025-06-06", ""}, seen)
}

func TestAskYesNo(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			answer := askYesNo(bufio.NewReader(strings.NewReader(tt.input)), &out, "Delete?")
			assert.Equal(t, tt.expected, answer)
			assert.Equal(t, "Delete? [y/N] ", out.String())
		})
	}
}
