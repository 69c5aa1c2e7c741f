package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"

	"github.com/ngld/bootstrap/pkg/bootstrap"
)

// exitStatus picks the process exit status for err. A failed command passes its own status through.
func exitStatus(err error) int {
	var cmdErr *bootstrap.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}

	return 1
}

func printError(w io.Writer, err error) {
	msg := err.Error()
	if os.Getenv("BOOTSTRAP_DEBUG") != "" {
		msg = eris.ToString(err, true)
	}

	fmt.Fprintf(w, colorstring.Color("[red][bold]error:[reset] ")+"%s\n", msg)
}

// ExitWithError prints err and terminates the process
func ExitWithError(err error) {
	printError(os.Stderr, err)
	os.Exit(exitStatus(err))
}
