// Package main provides the entry point for the milli-ai CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/metalagman/milli-ai/internal/generate"
	"github.com/metalagman/milli-ai/internal/logging"
	"github.com/metalagman/milli-ai/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := Execute(ctx)
	stop()
	if err != nil {
		fatal(err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, ui.ErrorText(err.Error()))
	var genErr *generate.Error
	if logging.DebugEnabled() && errors.As(err, &genErr) && genErr.Err != nil {
		fmt.Fprintf(os.Stderr, "cause (%s): %v\n", genErr.Kind, genErr.Err)
	}
}
