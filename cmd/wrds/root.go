package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	wrds "github.com/wrds-tools/wrds-go"
)

var (
	cfgFile        string
	promptPassword bool
	logLevelStr    string
)

var rootCmd = &cobra.Command{
	Use:   "wrds",
	Short: "query the WRDS PostgreSQL data warehouse",
	Long: `wrds is a convenience client for the WRDS data warehouse:
list libraries and tables, describe columns, and run SQL.

Connection parameters come from flags, WRDS_* environment variables,
or $HOME/.wrds.yaml, in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevelStr)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(cmd.Long + "\n\n" + cmd.UsageString())
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.wrds.yaml)")
	pf.StringP("username", "u", "", "WRDS username")
	pf.String("host", wrds.DefaultHost, "warehouse host")
	pf.Int("port", wrds.DefaultPort, "warehouse port")
	pf.String("dbname", wrds.DefaultDBName, "database name")
	pf.String("passfile", "", "pgpass-format password file")
	pf.BoolVarP(&promptPassword, "password-prompt", "W", false, "prompt for the password")
	pf.StringVar(&logLevelStr, "loglevel", "warn", "loglevel")

	for _, key := range []string{"username", "host", "port", "dbname", "passfile"} {
		_ = viper.BindPFlag(key, pf.Lookup(key))
	}

	rootCmd.AddCommand(librariesCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(exploreCmd)
}

// initConfig reads the config file and WRDS_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".wrds")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("wrds")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// settings assembles connection settings from flags/env/config. With -W
// the password is read from the terminal; otherwise password resolution
// is left to the driver (password/passfile settings, then .pgpass).
func settings() (wrds.Settings, error) {
	s := wrds.Settings{
		Username: viper.GetString("username"),
		Host:     viper.GetString("host"),
		Port:     viper.GetInt("port"),
		DBName:   viper.GetString("dbname"),
		Password: viper.GetString("password"),
		Passfile: viper.GetString("passfile"),
	}
	if s.Username == "" {
		return s, errors.New("username required (--username, WRDS_USERNAME, or config file)")
	}

	if promptPassword {
		fmt.Fprintf(os.Stderr, "Password for %s: ", s.Username)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return s, err
		}
		s.Password = string(pw)
	}
	return s, nil
}
