// cmd/cartserver/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/azaky/cartserver/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "[cartserver] %v\n", err)
		os.Exit(1)
	}
}
