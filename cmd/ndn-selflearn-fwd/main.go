package main

import (
	"github.com/ndnself/forwarder/cmd"
)

func main() {
	cmd.CmdForwarder.Execute()
}
