package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/Vijendrasi/container-service-extension/config"
	"github.com/Vijendrasi/container-service-extension/cse"
)

// Options the global command line options
type Options struct {
	Configuration string `short:"c" long:"configuration" description:"the configuration file" default:"config.yaml"`
	EnvFile       string `long:"env-file" description:"environment variable file exported before the configuration is loaded"`
	Daemon        bool   `short:"d" long:"daemon" description:"run as daemon"`
}

var options Options
var parser = flags.NewParser(&options, flags.Default & ^flags.PrintErrors)

func init() {
	log.SetOutput(os.Stdout)
	if runtime.GOOS == "windows" {
		log.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	} else {
		log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true})
	}
	log.SetLevel(log.DebugLevel)
}

func initSignals(s *cse.Service) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.WithFields(log.Fields{"signal": sig}).Info("receive a signal to stop the service & exit")
		s.Shutdown()
	}()
}

// loadConfig loads, overrides and validates the configuration file
func loadConfig() (*config.Config, error) {
	if options.EnvFile != "" {
		if err := config.LoadEnvFile(options.EnvFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(options.Configuration)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %s:\n%s", options.Configuration, err)
	}
	return cfg, nil
}

// RunServer runs the extension until it is signalled to stop
func RunServer() {
	cfg, err := loadConfig()
	if err != nil {
		log.WithFields(log.Fields{log.ErrorKey: err}).Fatal("fail to load configuration")
	}
	s := cse.New(cfg, Version)
	initSignals(s)
	if err := s.Run(); err != nil {
		log.WithFields(log.Fields{log.ErrorKey: err}).Fatal("service exited with error")
	}
}

func main() {
	if _, err := parser.Parse(); err != nil {
		flagsErr, ok := err.(*flags.Error)
		if ok {
			switch flagsErr.Type {
			case flags.ErrHelp:
				fmt.Fprintln(os.Stdout, err)
				os.Exit(0)
			case flags.ErrCommandRequired:
				if options.Daemon {
					Deamonize(RunServer)
				} else {
					RunServer()
				}
			default:
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		} else {
			// a subcommand Execute failure comes back as a plain error
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
