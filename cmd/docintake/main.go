// Command docintake ingests, classifies and searches documents.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/docintake/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
