package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSConfig configures the SNS sink.
type SNSConfig struct {
	TopicARN  string // destination topic; empty disables the sink
	Region    string // defaults to the region embedded in TopicARN
	Endpoint  string // custom endpoint (LocalStack etc.)
	AccessKey string // optional, default credential chain when empty
	SecretKey string
}

// SNSAPI is the subset of *sns.Client the sink uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS publishes messages to a single topic.
type SNS struct {
	TopicARN string
	Client   SNSAPI
}

// ParseTopicARN validates that s names an SNS topic and returns its region.
func ParseTopicARN(s string) (region string, err error) {
	a, err := arn.Parse(s)
	if err != nil {
		return "", fmt.Errorf("topic arn %q: %w", s, err)
	}
	if a.Service != "sns" {
		return "", fmt.Errorf("topic arn %q: service is %q, want sns", s, a.Service)
	}
	if a.Resource == "" {
		return "", fmt.Errorf("topic arn %q: missing topic name", s)
	}
	return a.Region, nil
}

// NewSNS builds an SNS sink backed by the AWS SDK. It returns nil, nil when
// no topic is configured.
func NewSNS(ctx context.Context, cfg SNSConfig) (*SNS, error) {
	if cfg.TopicARN == "" {
		return nil, nil
	}
	region, err := ParseTopicARN(cfg.TopicARN)
	if err != nil {
		return nil, err
	}
	if cfg.Region != "" {
		region = cfg.Region
	}

	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var snsOpts []func(*sns.Options)
	if cfg.Endpoint != "" {
		snsOpts = append(snsOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	return &SNS{TopicARN: cfg.TopicARN, Client: sns.NewFromConfig(awsCfg, snsOpts...)}, nil
}

func (s *SNS) Send(ctx context.Context, title, text string) error {
	if s == nil || s.Client == nil {
		return errors.New("sns disabled")
	}
	_, err := s.Client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.TopicARN),
		Subject:  aws.String(title),
		Message:  aws.String(text),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
