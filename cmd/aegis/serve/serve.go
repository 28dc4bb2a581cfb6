// Package servecmder provides the gateway server command.
package servecmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/aegis/gateway"
	"github.com/papercomputeco/aegis/pkg/audit"
	auditinmemory "github.com/papercomputeco/aegis/pkg/audit/inmemory"
	auditsqlite "github.com/papercomputeco/aegis/pkg/audit/sqlite"
	"github.com/papercomputeco/aegis/pkg/config"
	"github.com/papercomputeco/aegis/pkg/logger"
	"github.com/papercomputeco/aegis/pkg/upstream"
)

type serveCommander struct {
	listen         string
	allowedOrigins []string
	endpoint       string
	apiKey         string
	deployment     string
	apiVersion     string
	model          string
	contentSafety  bool
	threatDetect   bool
	sqlitePath     string
	debug          bool

	logger *zap.Logger
}

const serveLongDesc string = `Run the AI security gateway server.

The gateway accepts chat completion requests on /api/chat, screens them
through content-safety and threat-detection classifiers, and forwards clean
requests to the configured upstream provider. Blocked and completed requests
alike are recorded in the security audit log.

Without real upstream credentials the gateway runs in demo mode and serves
canned fallback replies, so the moderation pipeline can be exercised
end-to-end locally.`

const serveShortDesc string = "Run the aegis gateway server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			// Flags win over AEGIS_ environment variables, which win over
			// config.toml values, which win over defaults.
			configDir, _ := cmd.Flags().GetString("config")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("listen") {
				cmder.listen = v.GetString("gateway.listen")
			}
			if !cmd.Flags().Changed("allowed-origins") {
				cmder.allowedOrigins = v.GetStringSlice("gateway.allowed_origins")
			}
			if !cmd.Flags().Changed("endpoint") {
				cmder.endpoint = v.GetString("upstream.endpoint")
			}
			if !cmd.Flags().Changed("api-key") {
				cmder.apiKey = v.GetString("upstream.api_key")
			}
			if !cmd.Flags().Changed("deployment") {
				cmder.deployment = v.GetString("upstream.deployment")
			}
			if !cmd.Flags().Changed("api-version") {
				cmder.apiVersion = v.GetString("upstream.api_version")
			}
			if !cmd.Flags().Changed("model") {
				cmder.model = v.GetString("upstream.model")
			}
			if !cmd.Flags().Changed("content-safety") {
				cmder.contentSafety = v.GetBool("moderation.content_safety")
			}
			if !cmd.Flags().Changed("threat-detection") {
				cmder.threatDetect = v.GetBool("moderation.threat_detection")
			}
			if !cmd.Flags().Changed("sqlite") {
				cmder.sqlitePath = v.GetString("audit.sqlite_path")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.Gateway.Listen, "Address for the gateway to listen on")
	cmd.Flags().StringSliceVar(&cmder.allowedOrigins, "allowed-origins", defaults.Gateway.AllowedOrigins, "CORS origins allowed to call the gateway")
	cmd.Flags().StringVarP(&cmder.endpoint, "endpoint", "e", defaults.Upstream.Endpoint, "Upstream provider base URL")
	cmd.Flags().StringVarP(&cmder.apiKey, "api-key", "k", defaults.Upstream.APIKey, "Upstream provider API key")
	cmd.Flags().StringVar(&cmder.deployment, "deployment", defaults.Upstream.Deployment, "Deployment name for deployment-scoped routing")
	cmd.Flags().StringVar(&cmder.apiVersion, "api-version", defaults.Upstream.APIVersion, "API version for deployment-scoped routing")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", defaults.Upstream.Model, "Model name for OpenAI-compatible requests")
	cmd.Flags().BoolVar(&cmder.contentSafety, "content-safety", defaults.Moderation.ContentSafety, "Enable the content-safety analyzer by default")
	cmd.Flags().BoolVar(&cmder.threatDetect, "threat-detection", defaults.Moderation.ThreatDetection, "Enable the threat detector by default")
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite audit database (default: in-memory)")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	driver, err := c.newAuditDriver()
	if err != nil {
		return err
	}
	defer driver.Close()

	client := upstream.New(upstream.Config{
		Endpoint:   c.endpoint,
		APIKey:     c.apiKey,
		Deployment: c.deployment,
		APIVersion: c.apiVersion,
		Model:      c.model,
	}, c.logger)

	if !client.Configured() {
		c.logger.Warn("no upstream credentials configured, serving fallback responses")
	}

	g, err := gateway.New(gateway.Config{
		ListenAddr:      c.listen,
		AllowedOrigins:  c.allowedOrigins,
		ContentSafety:   c.contentSafety,
		ThreatDetection: c.threatDetect,
	}, client, driver, c.logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}
	defer g.Close()

	c.logger.Info("starting gateway server",
		zap.String("listen", c.listen),
		zap.String("allowed_origins", strings.Join(c.allowedOrigins, ",")),
		zap.Bool("content_safety", c.contentSafety),
		zap.Bool("threat_detection", c.threatDetect),
	)

	return g.Run()
}

func (c *serveCommander) newAuditDriver() (audit.Driver, error) {
	if c.sqlitePath != "" {
		driver, err := auditsqlite.NewDriver(context.Background(), c.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite audit store: %w", err)
		}
		c.logger.Info("using SQLite audit storage", zap.String("path", c.sqlitePath))
		return driver, nil
	}

	c.logger.Info("using in-memory audit storage")
	return auditinmemory.NewDriver(), nil
}
