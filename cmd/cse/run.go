package main

// RunCommand runs the extension in the foreground or as a daemon
type RunCommand struct {
}

var runCommand RunCommand

// Execute starts the extension service
func (rc RunCommand) Execute(args []string) error {
	if options.Daemon {
		Deamonize(RunServer)
	} else {
		RunServer()
	}
	return nil
}

func init() {
	parser.AddCommand("run",
		"run the extension",
		"The run subcommand starts the extension and consumes the configured amqp queue until it is signalled to stop",
		&runCommand)
}
