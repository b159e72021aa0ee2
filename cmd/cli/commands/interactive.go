package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start a session for running several commands in a row",
		Long: `Start an interactive session where you can run one command after another,
authorising with Google at most once. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\n🚀 Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			commands := sessionCommands(cmd.Parent())
			in := app.stdin()

			for {
				fmt.Print("> ")

				line, err := in.ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("error reading input: %w", err)
				}
				done := errors.Is(err, io.EOF)

				line = strings.TrimSpace(line)
				if line != "" {
					if quit := runSessionLine(commands, line); quit {
						return nil
					}
				}
				if done {
					fmt.Println()
					return nil
				}
			}
		},
	}
}

// sessionCommands returns the commands available inside a session, by name
func sessionCommands(root *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	for _, subCmd := range root.Commands() {
		switch subCmd.Name() {
		case "interactive", "completion", "help":
			continue
		}
		commands[subCmd.Name()] = subCmd
	}
	return commands
}

// runSessionLine runs one line of input and reports whether the session should end
func runSessionLine(commands map[string]*cobra.Command, line string) bool {
	parts, err := parseCommandLine(line)
	if err != nil {
		fmt.Printf("❌ Error parsing command: %v\n\n", err)
		return false
	}
	if len(parts) == 0 {
		return false
	}
	cmdName, cmdArgs := parts[0], parts[1:]

	switch cmdName {
	case "exit", "quit":
		fmt.Println("👋 Goodbye!")
		return true
	case "help":
		printInteractiveHelp(commands)
		return false
	}

	targetCmd, exists := commands[cmdName]
	if !exists {
		fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
		return false
	}

	// Flags keep their values between runs unless reset
	targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})

	// Run RunE directly so PersistentPreRunE does not set the app up again
	if err := targetCmd.ParseFlags(cmdArgs); err != nil {
		fmt.Printf("❌ Error parsing flags: %v\n\n", err)
		return false
	}
	cmdArgs = targetCmd.Flags().Args()

	if targetCmd.Args != nil {
		if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
			fmt.Printf("❌ Error: %v\n\n", err)
			return false
		}
	}

	if targetCmd.RunE != nil {
		if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
			fmt.Printf("❌ Error: %v\n\n", err)
		}
	} else if targetCmd.Run != nil {
		targetCmd.Run(targetCmd, cmdArgs)
	}
	return false
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-40s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                                     Show this help message")
	fmt.Println("  exit, quit                               Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting single and
// double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote
	started := false

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
			started = true
		case unicode.IsSpace(r):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}
	if started {
		args = append(args, current.String())
	}

	return args, nil
}
