package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-yaml"
	"github.com/ndnself/forwarder/core"
	"github.com/spf13/cobra"
)

var config = core.DefaultConfig()

var CmdForwarder = &cobra.Command{
	Use:   "ndn-selflearn-fwd CONFIG-FILE",
	Short: "NDN forwarder running the self-learning forwarding strategy",
	Args:  cobra.ExactArgs(1),
	Run:   run,
}

func readConfig(dest *core.Config, file string) {
	f, err := os.Open(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to open configuration file: %+v\n", err)
		os.Exit(3)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f, yaml.Strict())
	if err := dec.Decode(dest); err != nil {
		fmt.Fprintf(os.Stderr, "unable to parse configuration file: %+v\n", err)
		os.Exit(3)
	}
}

func run(cmd *cobra.Command, args []string) {
	readConfig(config, args[0])

	fwd := NewForwarder(config)
	fwd.Start()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-sigChannel
	core.Log.Info(fwd, "received signal, exiting", "signal", receivedSig)

	fwd.Stop()
}
