package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

type interactiveCmd struct {
	*root
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet { return nil }

func (i *interactiveCmd) Run() error {
	out := i.out()
	fmt.Fprintln(out, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		args := strings.Fields(line)
		if args[0] == "interactive" {
			continue
		}
		if err := i.dispatch(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return scanner.Err()
}

// dispatch runs one command line with the root flags already applied.
func (i *interactiveCmd) dispatch(args []string) error {
	cmd, err := i.root.command(args[0], args[1:])
	if err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) && uerr.of == HelpData(i.root) {
			return fmt.Errorf("unknown command %q", args[0])
		}
		return err
	}
	return cmd.Run()
}
