package client

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk/flag-driven shape an operator uses to start a
// fullfeed or igate client, instead of calling NewClient with positional
// arguments directly.
type Config struct {
	Callsign   string `yaml:"callsign"`
	Passcode   string `yaml:"passcode"`
	Mode       Mode   `yaml:"mode"`
	Protocol   Protocol `yaml:"protocol"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Filter     string `yaml:"filter"`
	RetryTimes int    `yaml:"retry_times"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{
		Mode:       Fullfeed,
		Protocol:   TCP,
		RetryTimes: 5,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// FlagSet returns the pflag.FlagSet a caller can parse os.Args into
// before calling ConfigFromArgs, or register alongside its own flags.
func FlagSet(name string) (*pflag.FlagSet, *Config) {
	cfg := &Config{
		Mode:       Fullfeed,
		Protocol:   TCP,
		RetryTimes: 5,
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&cfg.Callsign, "callsign", "N0CALL", "APRS-IS login callsign")
	fs.StringVar(&cfg.Passcode, "passcode", "", "APRS-IS login passcode")
	fs.StringVar((*string)(&cfg.Mode), "mode", string(Fullfeed), "client mode: fullfeed or igate")
	fs.StringVar((*string)(&cfg.Protocol), "protocol", string(TCP), "transport protocol: tcp or udp (Connect always dials TCP)")
	fs.StringVar(&cfg.Host, "host", "", "APRS-IS server host")
	fs.IntVar(&cfg.Port, "port", 14580, "APRS-IS server port")
	fs.StringVar(&cfg.Filter, "filter", "", "APRS-IS server-side filter string")
	fs.IntVar(&cfg.RetryTimes, "retry-times", 5, "reconnect attempts before giving up")

	return fs, cfg
}

// ConfigFromArgs parses args (typically os.Args[1:]) against FlagSet's
// flags and returns the resulting Config.
func ConfigFromArgs(name string, args []string) (*Config, error) {
	fs, cfg := FlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewClient builds a Client from this Config, for use by an operator's
// main() once flags/YAML have been resolved.
func (c *Config) NewClient(options ...Option) *Client {
	return NewClient(c.Callsign, c.Passcode, c.Mode, c.Protocol, c.Host, c.Port,
		append([]Option{WithFilter(c.Filter), WithRetryTimes(c.RetryTimes)}, options...)...)
}
