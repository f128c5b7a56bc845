package ecr

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ecr"
	"github.com/aws/aws-sdk-go/service/ecr/ecriface"
)

type mockECRClient struct {
	ecriface.ECRAPI
	output *ecr.GetAuthorizationTokenOutput
	err    error
}

func (m *mockECRClient) GetAuthorizationTokenWithContext(aws.Context, *ecr.GetAuthorizationTokenInput, ...request.Option) (*ecr.GetAuthorizationTokenOutput, error) {
	return m.output, m.err
}

func tokenOutput(token, endpoint string, expires *time.Time) *ecr.GetAuthorizationTokenOutput {
	return &ecr.GetAuthorizationTokenOutput{
		AuthorizationData: []*ecr.AuthorizationData{{
			AuthorizationToken: aws.String(token),
			ProxyEndpoint:      aws.String(endpoint),
			ExpiresAt:          expires,
		}},
	}
}

func TestTokenSource_Credential(t *testing.T) {
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	token := base64.StdEncoding.EncodeToString([]byte("AWS:sekret"))
	source := &TokenSource{api: &mockECRClient{
		output: tokenOutput(token, "https://481312470517.dkr.ecr.us-east-1.amazonaws.com", &expires),
	}}

	credential, err := source.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}

	if credential.Username != "AWS" {
		t.Errorf("Username = %v, want AWS", credential.Username)
	}
	if credential.Password != "sekret" {
		t.Errorf("Password = %v, want sekret", credential.Password)
	}
	if credential.Host != "481312470517.dkr.ecr.us-east-1.amazonaws.com" {
		t.Errorf("Host = %v, want the endpoint without scheme", credential.Host)
	}
	if !credential.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", credential.ExpiresAt, expires)
	}
}

func TestTokenSource_Credential_PasswordMayContainColons(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("AWS:pass:with:colons"))
	source := &TokenSource{api: &mockECRClient{
		output: tokenOutput(token, "https://registry.example.com", nil),
	}}

	credential, err := source.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}
	if credential.Password != "pass:with:colons" {
		t.Errorf("Password = %v, want pass:with:colons", credential.Password)
	}
}

func TestTokenSource_Credential_NoAuthorizationData(t *testing.T) {
	source := &TokenSource{api: &mockECRClient{
		output: &ecr.GetAuthorizationTokenOutput{},
	}}

	_, err := source.Credential(context.Background())
	if err == nil {
		t.Fatal("Credential() = nil, want error for empty response")
	}
	if !strings.Contains(err.Error(), "no data") {
		t.Errorf("Credential() error = %v, want empty-response diagnosis", err)
	}
}

func TestTokenSource_Credential_BadBase64(t *testing.T) {
	source := &TokenSource{api: &mockECRClient{
		output: tokenOutput("%%% not base64 %%%", "https://registry.example.com", nil),
	}}

	_, err := source.Credential(context.Background())
	if err == nil {
		t.Fatal("Credential() = nil, want decode error")
	}
	if !strings.Contains(err.Error(), "decoding authorization token") {
		t.Errorf("Credential() error = %v, want decode diagnosis", err)
	}
}

func TestTokenSource_Credential_MalformedToken(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("no-colon-here"))
	source := &TokenSource{api: &mockECRClient{
		output: tokenOutput(token, "https://registry.example.com", nil),
	}}

	_, err := source.Credential(context.Background())
	if err == nil {
		t.Fatal("Credential() = nil, want format error")
	}
	if !strings.Contains(err.Error(), "unexpected authorization token format") {
		t.Errorf("Credential() error = %v, want format diagnosis", err)
	}
}

func TestTokenSource_Credential_APIError(t *testing.T) {
	source := &TokenSource{api: &mockECRClient{
		err: errors.New("ExpiredTokenException: security token expired"),
	}}

	_, err := source.Credential(context.Background())
	if err == nil {
		t.Fatal("Credential() = nil, want error")
	}
	if !strings.Contains(err.Error(), "ExpiredTokenException") {
		t.Errorf("Credential() error = %v, want API error included", err)
	}
}
