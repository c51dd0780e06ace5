package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rpupo63/baglist-backend/errs"
	"github.com/rs/zerolog/log"
)

// LoadAWSConfig loads the default AWS configuration for region. AWS_ENDPOINT points every
// client at a local emulator such as LocalStack.
func LoadAWSConfig(ctx context.Context, region string) (sdkaws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}

	if endpoint := os.Getenv("AWS_ENDPOINT"); endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
		log.Info().Str("endpoint", endpoint).Str("region", cfg.Region).Msg("Using custom AWS endpoint")
	}
	return cfg, nil
}

// SecretGetter is the part of the Secrets Manager client used here.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsClient reads string secrets and caches them for the life of the process.
type SecretsClient struct {
	client SecretGetter
	cache  map[string]string
	mu     sync.RWMutex
}

func NewSecretsClient(client SecretGetter) *SecretsClient {
	return &SecretsClient{
		client: client,
		cache:  make(map[string]string),
	}
}

func NewSecretsClientFromConfig(cfg sdkaws.Config) *SecretsClient {
	return NewSecretsClient(secretsmanager.NewFromConfig(cfg))
}

func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &name})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	s.mu.Lock()
	s.cache[name] = *out.SecretString
	s.mu.Unlock()

	return *out.SecretString, nil
}

// ResolveJWTSecret returns JWT_SECRET, or the Secrets Manager secret named by JWT_SECRET_NAME
// when the plain value is unset.
func ResolveJWTSecret(ctx context.Context, settings Settings, secrets *SecretsClient) (string, error) {
	if settings.JWTSecret != "" {
		return settings.JWTSecret, nil
	}
	if settings.JWTSecretName == "" {
		return "", errs.NewConfigMissingError("JWT_SECRET")
	}
	if secrets == nil {
		return "", fmt.Errorf("no secrets client to resolve %s", settings.JWTSecretName)
	}
	return secrets.GetSecret(ctx, settings.JWTSecretName)
}
