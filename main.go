package main

import (
	"os"

	"github.com/mcpscan/mcpscan/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
