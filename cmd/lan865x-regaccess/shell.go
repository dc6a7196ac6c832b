package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

const shellHelp = `Commands:
  list                   - List known registers
  read <addr|name>       - Read a register
  write <addr|name> <v>  - Write a register
  status                 - Show device status
  debug                  - Show the debug status block
  debug on|off           - Open or close the debug gate
  debug <addr> [value]   - Send a debug command line
  quit                   - Exit`

// runShell reads commands until EOF or quit.
func runShell(tool *Tool, target string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "regaccess> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	tool.out = rl.Stdout()
	fmt.Fprintf(tool.out, "Connected to %s. Type 'help' for commands.\n", target)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch strings.ToLower(args[0]) {
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Fprintln(tool.out, shellHelp)
			continue
		}

		if err := tool.Run(args); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintf(tool.out, "%v (type 'help' for commands)\n", err)
			} else {
				fmt.Fprintf(tool.out, "Error: %v\n", err)
			}
		}
	}
}
