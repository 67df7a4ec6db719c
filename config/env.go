package config

import (
	"os"

	envparse "github.com/hashicorp/go-envparse"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// envOverrides lets operators keep credentials out of the configuration
// file. Values present in the environment win over the file.
type envOverrides struct {
	AMQPHost     string `envconfig:"CSE_AMQP_HOST"`
	AMQPUsername string `envconfig:"CSE_AMQP_USERNAME"`
	AMQPPassword string `envconfig:"CSE_AMQP_PASSWORD"`
	VCDHost      string `envconfig:"CSE_VCD_HOST"`
	VCDUsername  string `envconfig:"CSE_VCD_USERNAME"`
	VCDPassword  string `envconfig:"CSE_VCD_PASSWORD"`
}

func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := envconfig.Process("", &o); err != nil {
		return err
	}
	if o.AMQPHost != "" {
		cfg.AMQP.Host = o.AMQPHost
	}
	if o.AMQPUsername != "" {
		cfg.AMQP.Username = o.AMQPUsername
	}
	if o.AMQPPassword != "" {
		cfg.AMQP.Password = o.AMQPPassword
	}
	if o.VCDHost != "" {
		cfg.VCD.Host = o.VCDHost
	}
	if o.VCDUsername != "" {
		cfg.VCD.Username = o.VCDUsername
	}
	if o.VCDPassword != "" {
		cfg.VCD.Password = o.VCDPassword
	}
	return nil
}

// LoadEnvFile reads a dotenv style file and exports its entries into the
// process environment so they participate in the overrides above.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := envparse.Parse(f)
	if err != nil {
		log.WithFields(log.Fields{
			log.ErrorKey: err,
			"file":       path,
		}).Error("Parse env file failed: " + path)
		return err
	}
	for k, v := range r {
		os.Setenv(k, v)
	}
	return nil
}
