//go:build windows
// +build windows

package main

import (
	log "github.com/sirupsen/logrus"
)

// Deamonize runs the process in the foreground, windows has no fork
func Deamonize(proc func()) {
	log.Info("daemonize is not supported on windows, running in foreground")
	proc()
}
