package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "statusdemo",
		Short:        "statusdemo sends requests to a statusdemo server and shows how it answers",
		SilenceUsage: true,
	}
	cmd.AddGroup(&cobra.Group{
		ID:    "actions",
		Title: "Actions",
	})

	var cfgFile string
	cmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("STATUSDEMO_CONFIG"), "config file (default is $HOME/.statusdemo)")
	cmd.CompletionOptions.DisableDefaultCmd = true
	cobra.OnInitialize(initConfig(&cfgFile))

	return cmd
}

func Execute(command *cobra.Command) {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(cfgFile *string) func() {
	return func() {
		viper.SetDefault("server", "http://localhost:3000")
		viper.SetDefault("format", "json")
		viper.SetDefault("method", "GET")
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
		} else {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)

			viper.SetConfigName(".statusdemo")
			viper.SetConfigType("env")
			viper.AddConfigPath(home)
		}
		viper.SetEnvPrefix("statusdemo")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()

		_ = viper.ReadInConfig()
	}
}
