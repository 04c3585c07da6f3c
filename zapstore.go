package main

import (
	"fmt"
	"os"
	"time"

	"github.com/LeeDigitalWorks/zapstore/cmd"
	"github.com/LeeDigitalWorks/zapstore/pkg/env"

	"github.com/getsentry/sentry-go"
)

func main() {
	if env.IsProduction() {
		err := sentry.Init(sentry.ClientOptions{
			SampleRate:       0.1,
			EnableTracing:    true,
			TracesSampleRate: 0.1,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "sentry.Init: %v\n", err)
		}
		// Flush buffered events before the program terminates.
		// Set the timeout to the maximum duration the program can afford to wait.
		defer sentry.Flush(2 * time.Second)
	}

	cmd.Execute()
}
