package main

import (
	"fmt"
)

// Version is the version of the container service extension
const Version = "v1.2.5"

// VersionCommand is interface to receive version read request
type VersionCommand struct {
}

var versionCommand VersionCommand

// Execute executes the version command
func (v VersionCommand) Execute(args []string) error {
	fmt.Println(Version)
	return nil
}

func init() {
	parser.AddCommand("version",
		"show the version of the extension",
		"display the container service extension version",
		&versionCommand)
}
