package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"trivia-quiz/internal/webclient"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "quiz service base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout")
	flag.Parse()

	err := webclient.Run(context.Background(), os.Stdin, os.Stdout, webclient.Config{
		ServerURL:   *server,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
