package main

import (
	"os"

	"github.com/Vijendrasi/container-service-extension/config"
)

// SampleCommand implements flags.Commander interface
type SampleCommand struct {
	OutFile string `short:"o" long:"output" description:"the output file name, stdout when omitted"`
}

var sampleCommand SampleCommand

// Execute writes the sample configuration file
func (x *SampleCommand) Execute(args []string) error {
	if x.OutFile == "" {
		return config.GenSample(os.Stdout)
	}
	f, err := os.OpenFile(x.OutFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return config.GenSample(f)
}

func init() {
	parser.AddCommand("sample",
		"generate a sample configuration",
		"The sample subcommand writes the supported configuration keys with placeholder credentials",
		&sampleCommand)
}
