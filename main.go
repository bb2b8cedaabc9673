package main

import (
	"os"

	"github.com/siitkit/faqrag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
