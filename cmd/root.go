package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "rxresume-mcp"
)

type Config struct {
	BaseURL    string `mapstructure:"base-url"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Email      string `mapstructure:"email"`
	Password   string `mapstructure:"password"`
	LegacyAPI  bool   `mapstructure:"legacy-api"`
	UserAgent  string `mapstructure:"user-agent"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "rxresume-mcp is an MCP server exposing a Reactive-Resume-compatible service as a set of tools",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Credentials and the base URL come from the environment once at
	// start-up. A local .env file is honored when present.
	_ = godotenv.Load()

	envBindings := map[string]string{
		"base-url":     "RXRESUME_BASE_URL",
		"api-key":      "RXRESUME_API_KEY",
		"api-key-file": "RXRESUME_API_KEY_FILE",
		"email":        "RXRESUME_EMAIL",
		"password":     "RXRESUME_PASSWORD",
		"legacy-api":   "RXRESUME_LEGACY_API",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is rxresume-mcp.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A config file is optional: everything can come from the environment.
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		// Only an explicitly requested config file is required to exist.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}
