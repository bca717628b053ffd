package main

import (
	"os"

	"github.com/steveyegge/hrs/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
