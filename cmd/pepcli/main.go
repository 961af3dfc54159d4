package main

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/op/go-logging"
	"github.com/urfave/cli"

	pepcli_logging "github.com/pombreda/argus-pep-api-c/logging"
)

var clientVersion = semver.MustParse("0.1.0")

func PrintFatal(msg string, args ...interface{}) {
	PrintErr(msg, args...)
	os.Exit(1)
}

func PrintErr(msg string, args ...interface{}) {
	os.Stderr.WriteString(fmt.Sprintf(msg, args...) + "\n")
}

func main() {
	log := pepcli_logging.Setup("pepcli", logging.NOTICE, false)

	app := cli.NewApp()
	app.Name = "pepcli"
	app.Usage = "query an Argus PEP daemon for an authorization decision"
	app.Version = clientVersion.String()
	app.Commands = []cli.Command{
		authorizeCommand(log),
		encodeCommand(),
		decodeCommand(),
	}
	if err := app.Run(os.Args); err != nil {
		PrintFatal(err.Error())
	}
}
