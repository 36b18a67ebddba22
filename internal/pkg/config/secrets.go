// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Keys looked up in the pantry secret document.
const (
	SecretGenAIAPIKey = "GENAI_API_KEY"
	SecretDBPassword  = "DB_PASSWORD"
)

// secretBinding ties a secret key to the config field it fills.
type secretBinding struct {
	key    string
	target func(*Config) *string
}

var secretBindings = []secretBinding{
	{SecretGenAIAPIKey, func(c *Config) *string { return &c.Classifier.APIKey }},
	{SecretDBPassword, func(c *Config) *string { return &c.Database.Password }},
}

// SecretSource resolves named secrets.
type SecretSource interface {
	GetSecret(ctx context.Context, key string) (string, error)
	GetSecrets(ctx context.Context, keys []string) (map[string]string, error)
}

type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager reads one JSON document from Secrets Manager and keeps
// it for documentTTL before fetching again.
type AWSSecretsManager struct {
	client      secretsAPI
	secretID    string
	documentTTL time.Duration
	logger      *slog.Logger

	mu        sync.Mutex
	document  map[string]string
	fetchedAt time.Time
}

var _ SecretSource = (*AWSSecretsManager)(nil)

// NewAWSSecretsManager builds a manager using the default AWS credential chain.
func NewAWSSecretsManager(ctx context.Context, region, secretID string, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newAWSSecretsManager(secretsmanager.NewFromConfig(cfg), secretID, logger), nil
}

func newAWSSecretsManager(client secretsAPI, secretID string, logger *slog.Logger) *AWSSecretsManager {
	return &AWSSecretsManager{
		client:      client,
		secretID:    secretID,
		documentTTL: 5 * time.Minute,
		logger:      logger.With(slog.String("secret_id", secretID)),
	}
}

func (sm *AWSSecretsManager) GetSecret(ctx context.Context, key string) (string, error) {
	doc, err := sm.load(ctx)
	if err != nil {
		return "", err
	}
	val, ok := doc[key]
	if !ok {
		return "", fmt.Errorf("secret key %s not found", key)
	}
	return val, nil
}

// GetSecrets returns the subset of keys present in the document.
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	doc, err := sm.load(ctx)
	if err != nil {
		return nil, err
	}

	found := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := doc[key]; ok {
			found[key] = val
			continue
		}
		sm.logger.Warn("secret key missing from document", slog.String("key", key))
	}
	return found, nil
}

func (sm *AWSSecretsManager) load(ctx context.Context) (map[string]string, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.document != nil && time.Since(sm.fetchedAt) < sm.documentTTL {
		return sm.document, nil
	}

	sm.logger.Info("fetching pantry secrets")
	out, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", sm.secretID)
	}

	var doc map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	sm.document = doc
	sm.fetchedAt = time.Now()
	return doc, nil
}

// resolveSecrets fills credentials from Secrets Manager when AWS_SECRET_ID
// is set.
func resolveSecrets(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	if cfg.AWS.SecretID == "" {
		return nil
	}
	source, err := NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.AWS.SecretID, logger)
	if err != nil {
		return err
	}
	return applySecrets(ctx, cfg, source)
}

// applySecrets copies secrets into cfg. An explicit environment variable
// takes precedence over the secret document.
func applySecrets(ctx context.Context, cfg *Config, source SecretSource) error {
	keys := make([]string, len(secretBindings))
	for i, b := range secretBindings {
		keys[i] = b.key
	}

	secrets, err := source.GetSecrets(ctx, keys)
	if err != nil {
		return fmt.Errorf("failed to resolve secrets: %w", err)
	}

	for _, b := range secretBindings {
		val, ok := secrets[b.key]
		if !ok || os.Getenv(b.key) != "" {
			continue
		}
		*b.target(cfg) = val
	}
	return nil
}
