package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Vijendrasi/container-service-extension/broker"
	"github.com/Vijendrasi/container-service-extension/config"
	"github.com/Vijendrasi/container-service-extension/template"
	"github.com/Vijendrasi/container-service-extension/vcd"
)

// CheckCommand validates the configuration file and probes the endpoints it
// references.
type CheckCommand struct {
	Timeout   int  `long:"timeout" description:"per probe timeout in seconds" default:"10"`
	SkipProbe bool `long:"skip-probe" description:"only validate the file, do not touch the network"`
}

var checkCommand CheckCommand

func boolToMsg(value bool) string {
	if value {
		return "success"
	}
	return "fail"
}

// Execute runs the configuration check
func (x *CheckCommand) Execute(args []string) error {
	if options.EnvFile != "" {
		if err := config.LoadEnvFile(options.EnvFile); err != nil {
			return err
		}
	}

	if err := config.CheckPermissions(options.Configuration); err != nil {
		return fmt.Errorf("file permission check: %s", err)
	}
	fmt.Printf("file permissions: %s\n", boolToMsg(true))

	cfg, err := config.Load(options.Configuration)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Printf("schema validation: %s\n", boolToMsg(false))
		for _, e := range err.(*config.ErrList).Errors() {
			fmt.Println("  -", e)
		}
		return fmt.Errorf("configuration %s is invalid", options.Configuration)
	}
	fmt.Printf("schema validation: %s\n", boolToMsg(true))

	if x.SkipProbe {
		return nil
	}

	timeout := time.Duration(x.Timeout) * time.Second
	failed := false

	err = broker.NewAMQPChecker(&cfg.AMQP, timeout).Check()
	fmt.Printf("amqp broker %s:%d: %s\n", cfg.AMQP.Host, cfg.AMQP.Port, boolToMsg(err == nil))
	if err != nil {
		failed = true
		log.WithFields(log.Fields{log.ErrorKey: err}).Error("amqp check failed")
	}

	err = vcd.NewAPIChecker(&cfg.VCD, timeout).Check()
	fmt.Printf("vcd api %s:%d: %s\n", cfg.VCD.Host, cfg.VCD.Port, boolToMsg(err == nil))
	if err != nil {
		log.WithFields(log.Fields{log.ErrorKey: err}).Error("vcd api check failed")
		return fmt.Errorf("configuration check failed")
	}

	client := vcd.NewClient(&cfg.VCD, cfg.VCS)
	err = client.Connect()
	fmt.Printf("vcd login as %s: %s\n", cfg.VCD.Username, boolToMsg(err == nil))
	if err != nil {
		return fmt.Errorf("configuration check failed")
	}
	defer client.Disconnect()

	_, err = client.GetVDC(cfg.Broker.Org, cfg.Broker.VDC)
	fmt.Printf("org %q vdc %q: %s\n", cfg.Broker.Org, cfg.Broker.VDC, boolToMsg(err == nil))
	if err != nil {
		failed = true
	}

	exists, err := client.CatalogExists(cfg.Broker.Org, cfg.Broker.Catalog)
	fmt.Printf("catalog %q: %s\n", cfg.Broker.Catalog, boolToMsg(err == nil && exists))
	if err == nil && exists {
		installer := template.NewInstaller(cfg, client, "")
		missing, err := installer.Missing()
		if err == nil {
			for _, item := range missing {
				fmt.Printf("catalog item %q: %s\n", item, boolToMsg(false))
				failed = true
			}
		}
	} else {
		failed = true
	}

	if failed {
		return fmt.Errorf("configuration check failed")
	}
	fmt.Println("configuration check: success")
	return nil
}

func init() {
	parser.AddCommand("check",
		"validate the configuration",
		"The check subcommand validates the configuration file and probes the amqp broker and vcd endpoints it references",
		&checkCommand)
}
