package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/arloliu/go-usrr16/logger"
	"github.com/arloliu/go-usrr16/usrr16"
	"github.com/spf13/cobra"
)

// app holds the global flags and the state shared by the sub-commands.
type app struct {
	cfgFile    string
	host       string
	port       int
	password   string
	timeout    time.Duration
	cmdTimeout time.Duration

	cfg *Config
}

// NewRootCmd builds the usrr16ctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "usrr16ctl",
		Short: "Switch and inspect the relays of a USR-R16 board",
		Long: `usrr16ctl talks to a USR-R16 / USR-R16-T relay board over its TCP protocol.
It can turn single relays on, off or invert them, turn every relay off and
report relay states.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.usrr16/config.yaml)")
	flags.StringVar(&a.host, "host", "", "relay board host")
	flags.IntVar(&a.port, "port", usrr16.DefaultPort, "relay board TCP port")
	flags.StringVar(&a.password, "password", usrr16.DefaultPassword, "relay board password")
	flags.DurationVar(&a.timeout, "timeout", usrr16.DefaultConnectTimeout, "connect and authentication timeout")
	flags.DurationVar(&a.cmdTimeout, "command-timeout", DefaultCommandTimeout, "timeout of each command, 0 disables it")

	rootCmd.AddCommand(
		a.newSwitchCmd("on <relay>", "Turn a relay on", (*usrr16.Client).TurnOn),
		a.newSwitchCmd("off <relay>", "Turn a relay off", (*usrr16.Client).TurnOff),
		a.newSwitchCmd("invert <relay>", "Invert a relay", (*usrr16.Client).Invert),
		a.newAllOffCmd(),
		a.newStateCmd(),
		a.newStatusCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	path := a.cfgFile
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// explicit flags override the file
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = a.host
	}
	if flags.Changed("port") {
		cfg.Port = a.port
	}
	if flags.Changed("password") {
		cfg.Password = a.password
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if flags.Changed("command-timeout") {
		cfg.CommandTimeout = a.cmdTimeout
	}

	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	a.cfg = cfg

	return nil
}

// withClient connects to the configured board, runs fn and closes the connection.
func (a *app) withClient(ctx context.Context, fn func(*usrr16.Client) error) error {
	clientCfg, err := a.cfg.clientConfig()
	if err != nil {
		return err
	}

	client, err := usrr16.Connect(ctx, clientCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", clientCfg.Addr(), err)
	}
	defer client.Close()

	return fn(client)
}
