package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SecretsConfig names the SSM parameters read in prod.
type SecretsConfig struct {
	Region       string `mapstructure:"region"`
	DiscordToken string `mapstructure:"discord_token"`
	ChartAPIKey  string `mapstructure:"chart_api_key"`
	DBHost       string `mapstructure:"db_host"`
	DBUser       string `mapstructure:"db_user"`
	DBPassword   string `mapstructure:"db_password"`
}

// SecretStore returns the decrypted value of a named parameter.
type SecretStore interface {
	Get(ctx context.Context, name string) (string, error)
}

type ssmGetter interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore reads SecureString parameters from AWS SSM.
type ParameterStore struct {
	client ssmGetter
}

// NewParameterStore loads the default AWS credential chain.
func NewParameterStore(ctx context.Context, region string) (*ParameterStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &ParameterStore{client: ssm.NewFromConfig(cfg)}, nil
}

func (p *ParameterStore) Get(ctx context.Context, name string) (string, error) {
	result, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", name)
	}
	return *result.Parameter.Value, nil
}

type secretTarget struct {
	param string
	dst   *string
}

// ResolveSecrets overwrites credentials with values from store. Parameters
// with an empty name are skipped. The database is only consulted when enabled.
func (c *Config) ResolveSecrets(ctx context.Context, store SecretStore) error {
	targets := []secretTarget{
		{c.Secrets.DiscordToken, &c.Discord.Token},
		{c.Secrets.ChartAPIKey, &c.Chart.APIKey},
	}
	if c.Postgres.Enabled {
		targets = append(targets,
			secretTarget{c.Secrets.DBHost, &c.Postgres.Host},
			secretTarget{c.Secrets.DBUser, &c.Postgres.User},
			secretTarget{c.Secrets.DBPassword, &c.Postgres.Password},
		)
	}

	for _, t := range targets {
		if t.param == "" {
			continue
		}
		val, err := store.Get(ctx, t.param)
		if err != nil {
			return fmt.Errorf("resolve secret: %w", err)
		}
		*t.dst = val
	}
	return nil
}
