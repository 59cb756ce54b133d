package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// errDeclined is returned when the user answers no to a confirmation.
var errDeclined = errors.New("declined")

// confirm asks a yes/no question on stderr. Anything but y or yes declines.
func (c *cli) confirm(cmd *cobra.Command, question string) error {
	if c.yes {
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)

	answer, err := c.readLine(cmd)
	if err != nil {
		return errDeclined
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errDeclined
}

// readLine reads one trimmed line of input. The reader is shared so
// successive prompts do not lose buffered input.
func (c *cli) readLine(cmd *cobra.Command) (string, error) {
	if c.input == nil {
		c.input = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := c.input.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
