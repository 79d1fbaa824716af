package main

import (
	"fmt"
	"os"

	"github.com/mathboard/mathboard/log"
)

func main() {
	log.InitLog()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
