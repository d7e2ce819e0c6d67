package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	awsauth "github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/aws"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/config"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/server"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/services/cdn"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/services/inventory"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/services/publisher"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/services/rightsizing"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/services/rightsizing/aws_ce"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/services/rightsizing/optimizer"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/services/rightsizing/synthetic"
	s3store "github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/store/s3"
)

var (
	cfgPath string
	addr    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rightsizing",
		Short: "EC2 rightsizing recommendation publisher",
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the publisher config file (optional, RIGHTSIZING_* env vars also work)")

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Fetch recommendations and publish them once",
		RunE:  runPublish,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the publish trigger over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")

	rootCmd.AddCommand(publishCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runPublish(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx := logger.WithContext(cmd.Context())

	pub, err := buildPublisher(ctx)
	if err != nil {
		return err
	}

	receipt, err := pub.Publish(ctx)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	logger.Info().
		Str("source", receipt.Source).
		Str("latest_key", receipt.LatestKey).
		Int("items", receipt.Items).
		Msg("publish complete")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx := logger.WithContext(cmd.Context())

	pub, err := buildPublisher(ctx)
	if err != nil {
		return err
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Publisher: pub,
		},
	})
	return webAPI.Start()
}

func newLogger() zerolog.Logger {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func buildPublisher(ctx context.Context) (*publisher.Publisher, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	awsCfg, err := awsauth.LoadConfig(ctx, cfg.Profile, cfg.Region)
	if err != nil {
		return nil, err
	}

	chain := rightsizing.NewChain(rightsizing.ChainOptions{
		MinSavings: cfg.MinSavings,
		Sources: []rightsizing.Source{
			aws_ce.NewController(*awsCfg, cfg.RecommendationTarget),
			optimizer.NewController(*awsCfg),
		},
		Fallback: synthetic.NewGenerator(),
		Probe:    inventory.NewProbe(*awsCfg),
	})

	opts := publisher.Options{
		Fetcher: chain,
		Store:   s3store.NewStore(*awsCfg, cfg.Bucket),
		Prefix:  cfg.Prefix,
	}
	if cfg.DistributionID != "" {
		opts.Invalidator = cdn.NewInvalidator(*awsCfg, cfg.DistributionID)
	}

	return publisher.New(opts), nil
}
