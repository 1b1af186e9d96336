package shell

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// parseFlags parses the flags of one verb. Flags may appear anywhere among
// the operands; "--" ends flag parsing.
func parseFlags(name string, args []string, define func(flags *pflag.FlagSet)) ([]string, error) {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SetInterspersed(true)
	define(flags)

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return flags.Args(), nil
}
