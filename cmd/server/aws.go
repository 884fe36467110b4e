package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// awsTimeout bounds every call made through the adapters.
const awsTimeout = 10 * time.Second

// S3Adapter adapts AWS S3 client to the asset store interface
type S3Adapter struct {
	client *s3.Client
	bucket string
}

func (a *S3Adapter) GetObject(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsTimeout)
	defer cancel()

	output, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()
	return io.ReadAll(output.Body)
}

func (a *S3Adapter) ListObjects(prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsTimeout)
	defer cancel()

	output, err := a.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: &a.bucket,
		Prefix: &prefix,
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(output.Contents))
	for _, obj := range output.Contents {
		keys = append(keys, *obj.Key)
	}
	return keys, nil
}

// BedrockAdapter adapts AWS Bedrock client to the invite composer interface
type BedrockAdapter struct {
	client *bedrockruntime.Client
}

// BedrockRequest represents the request body for Claude via Bedrock
type BedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Messages         []BedrockMessage `json:"messages"`
}

// BedrockMessage represents a message in the Bedrock request
type BedrockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (a *BedrockAdapter) InvokeModel(modelID string, prompt string) (string, error) {
	req := BedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        300,
		Messages: []BedrockMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), awsTimeout)
	defer cancel()

	output, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &modelID,
		Body:        body,
		ContentType: stringPtr("application/json"),
	})
	if err != nil {
		return "", err
	}

	return string(output.Body), nil
}

func stringPtr(s string) *string {
	return &s
}
