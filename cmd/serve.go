package cmd

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/spigell/rxresume-mcp/internal/logger"
	"github.com/spigell/rxresume-mcp/internal/rxresume"
	"github.com/spigell/rxresume-mcp/internal/secrets"
	"github.com/spigell/rxresume-mcp/internal/server"
	"github.com/spigell/rxresume-mcp/internal/tools"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resume tools over stdio until the MCP client disconnects",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("base-url", "", "base URL of the resume service")
	serveCmd.Flags().Bool("legacy-api", false, "use the legacy v4 schema instead of the v5 OpenAPI shape")
	serveCmd.Flags().Bool("skip-probe", false, "do not probe the upstream health endpoint at start-up")

	viper.BindPFlag("base-url", serveCmd.Flags().Lookup("base-url"))
	viper.BindPFlag("legacy-api", serveCmd.Flags().Lookup("legacy-api"))
}

// serve is the main command: it builds the upstream client from the
// environment, applies any pre-supplied credentials, and hands the tool menu
// to the MCP stdio transport.
func serve(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the rxresume-mcp server", zap.String("version", version))

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		logger.Fatal("base url is required",
			zap.String("hint", "set RXRESUME_BASE_URL or the 'base-url' key in the configuration file"),
		)
	}

	var opts []rxresume.Option
	if config.LegacyAPI {
		opts = append(opts, rxresume.WithLegacyAPI())
	}

	client := rxresume.New(baseURL, logger, opts...)

	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	if err := applyCredentials(ctx, client, config, logger); err != nil {
		logger.Fatal("applying start-up credentials", zap.Error(err))
	}

	if cmd.Flag("skip-probe").Value.String() == "false" {
		if _, err := client.CheckConnection(ctx); err != nil {
			logger.Fatal("upstream is unreachable at launch",
				zap.Error(err),
				zap.String("base_url", baseURL),
			)
		}
		logger.Info("upstream reachable", zap.String("base_url", baseURL))
	}

	session := tools.NewSession(client, config.LegacyAPI, logger)

	s := server.New(session, version)

	logger.Info("serving over stdio")

	if err := server.ServeStdio(s, logger); err != nil {
		logger.Fatal("stdio transport failed", zap.Error(err))
	}

	logger.Info("client disconnected, exiting")
}

// applyCredentials wires a pre-supplied API key or legacy email/password into
// the client. Both may also be provided later via the authenticate tool.
func applyCredentials(ctx context.Context, client *rxresume.Client, config *Config, logger *zap.Logger) error {
	apiKey, err := resolveAPIKey(config)
	switch {
	case err == nil:
		client.SetAPIKey(apiKey)
		logger.Info("using pre-supplied api key")
		return nil
	case !errors.Is(err, errNoAPIKey):
		return err
	}

	if config.Email != "" || config.Password != "" {
		if err := client.Login(ctx, config.Email, config.Password); err != nil {
			return err
		}
		logger.Info("authenticated with legacy credentials", zap.String("email", config.Email))
		return nil
	}

	logger.Info("no start-up credentials supplied",
		zap.String("hint", "call the authenticate tool before any resume operation"),
	)

	return nil
}

var errNoAPIKey = errors.New("no api key configured")

func resolveAPIKey(config *Config) (string, error) {
	if strings.TrimSpace(config.APIKey) == "" && strings.TrimSpace(config.APIKeyFile) == "" {
		return "", errNoAPIKey
	}

	return secrets.Load(secrets.Source{
		Name:  "resume service api key",
		Value: config.APIKey,
		File:  config.APIKeyFile,
	})
}
