package main

import (
	"github.com/jwilges/drover/cmd"
	"github.com/jwilges/drover/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
