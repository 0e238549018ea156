package main

import (
	"fmt"
	"os"

	"github.com/trezcool/madrasa/core"
	logsvc "github.com/trezcool/madrasa/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	cli := newCommandLine(conf, logger, os.Stdout)
	err := cli.run(os.Args[1:])
	cli.close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
