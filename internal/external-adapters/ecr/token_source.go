// Package ecr exchanges ambient AWS credentials for short-lived registry
// logins.
package ecr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ecr"
	"github.com/aws/aws-sdk-go/service/ecr/ecriface"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

// TokenSource obtains docker login credentials from ECR's authorization
// token endpoint. The AWS session is created lazily on first use, so runs
// that fail before the authentication stage never read cloud configuration.
type TokenSource struct {
	region  string
	profile string
	api     ecriface.ECRAPI
}

// NewTokenSource builds a token source for the given region and shared
// config profile, resolving credentials the same way the aws CLI would.
func NewTokenSource(region, profile string) *TokenSource {
	return &TokenSource{region: region, profile: profile}
}

func (t *TokenSource) client() (ecriface.ECRAPI, error) {
	if t.api != nil {
		return t.api, nil
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            aws.Config{Region: aws.String(t.region)},
		Profile:           t.profile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}

	t.api = ecr.New(sess)
	return t.api, nil
}

// Credential fetches and decodes an authorization token. The token body is a
// base64 "user:password" pair; the user is fixed to AWS for ECR.
func (t *TokenSource) Credential(ctx context.Context) (*entities.RegistryCredential, error) {
	api, err := t.client()
	if err != nil {
		return nil, err
	}

	result, err := api.GetAuthorizationTokenWithContext(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return nil, fmt.Errorf("requesting authorization token: %w", err)
	}
	if len(result.AuthorizationData) == 0 {
		return nil, fmt.Errorf("authorization token response contained no data")
	}

	data := result.AuthorizationData[0]
	decoded, err := base64.StdEncoding.DecodeString(aws.StringValue(data.AuthorizationToken))
	if err != nil {
		return nil, fmt.Errorf("decoding authorization token: %w", err)
	}

	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("unexpected authorization token format: want user:password, got %d fields", len(parts))
	}

	credential := &entities.RegistryCredential{
		Username: parts[0],
		Password: parts[1],
		Host:     strings.TrimPrefix(aws.StringValue(data.ProxyEndpoint), "https://"),
	}
	if data.ExpiresAt != nil {
		credential.ExpiresAt = *data.ExpiresAt
	}

	return credential, nil
}
