package main

import (
	"fmt"
	"os"

	"github.com/conneroisu/tackweld/cmd"
	"github.com/conneroisu/tackweld/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.FormatError(err))
		os.Exit(1)
	}
}
