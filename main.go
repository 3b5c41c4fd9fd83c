package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"goodfood/internal/app"
	"goodfood/internal/emailworker"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var mode string
	var serviceArgs []string

	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		if strings.HasPrefix(arg, "--mode=") {
			mode = strings.TrimPrefix(arg, "--mode=")
		} else if arg == "--mode" && i+1 < len(os.Args) {
			mode = os.Args[i+1]
			i++
		} else {
			serviceArgs = append(serviceArgs, arg)
		}
	}

	if mode == "" {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	var err error
	switch mode {
	case "app":
		err = app.Execute(ctx, serviceArgs)
	case "email-worker":
		err = emailworker.Execute(ctx, serviceArgs)
	default:
		fmt.Printf("Invalid mode: %s\n", mode)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: goodfood --mode=<service-mode> [service-specific-flags]")
	fmt.Println("Available modes:")
	fmt.Println("  app          --config-path=config.yaml")
	fmt.Println("  email-worker --config-path=config.yaml --transport=pull|amqp")
}
