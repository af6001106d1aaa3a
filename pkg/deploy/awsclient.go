package deploy

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jwilges/drover/pkg/config"
	"github.com/jwilges/drover/pkg/errors"
)

// AWSClient implements RemoteClient over the Lambda and S3 APIs. One client
// is constructed per deploy invocation and passed into the synchronizer;
// there is no shared session state between stages.
type AWSClient struct {
	lambda *lambda.Client
	newS3  func(region string) *s3.Client
}

// NewAWSClient builds an AWSClient for the stage's region using the ambient
// credential chain.
func NewAWSClient(ctx context.Context, region string) (*AWSClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.WithContext(err, "load AWS configuration")
	}

	return &AWSClient{
		lambda: lambda.NewFromConfig(cfg),
		newS3: func(bucketRegion string) *s3.Client {
			return s3.NewFromConfig(cfg, func(o *s3.Options) {
				if bucketRegion != "" {
					o.Region = bucketRegion
				}
			})
		},
	}, nil
}

func (c *AWSClient) GetFunction(ctx context.Context, name string) (*FunctionDescriptor, error) {
	out, err := c.lambda.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		return nil, errors.RemoteError{Op: "get function", Err: err}
	}

	descriptor := &FunctionDescriptor{
		Name: name,
		Tags: out.Tags,
	}
	if descriptor.Tags == nil {
		descriptor.Tags = map[string]string{}
	}
	if cfg := out.Configuration; cfg != nil {
		descriptor.ARN = aws.ToString(cfg.FunctionArn)
		descriptor.Runtime = string(cfg.Runtime)
		descriptor.CodeSize = cfg.CodeSize
		for _, layer := range cfg.Layers {
			descriptor.LayerARNs = append(descriptor.LayerARNs, aws.ToString(layer.Arn))
		}
	}
	return descriptor, nil
}

func (c *AWSClient) GetLayerVersion(ctx context.Context, arn string) error {
	_, err := c.lambda.GetLayerVersionByArn(ctx, &lambda.GetLayerVersionByArnInput{
		Arn: aws.String(arn),
	})
	if err != nil {
		return errors.RemoteError{Op: "get layer version", Err: err}
	}
	return nil
}

func (c *AWSClient) UploadObject(ctx context.Context, bucket config.S3BucketPath, key string, body io.Reader) (ObjectRef, error) {
	out, err := c.newS3(bucket.RegionName).PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket.BucketName),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return ObjectRef{}, errors.StorageError{Op: "upload object", Err: err}
	}

	return ObjectRef{
		Region:    bucket.RegionName,
		Bucket:    bucket.BucketName,
		Key:       key,
		VersionID: aws.ToString(out.VersionId),
	}, nil
}

func (c *AWSClient) DeleteObject(ctx context.Context, ref ObjectRef) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	}
	if ref.VersionID != "" {
		input.VersionId = aws.String(ref.VersionID)
	}

	if _, err := c.newS3(ref.Region).DeleteObject(ctx, input); err != nil {
		return errors.StorageError{Op: "delete object", Err: err}
	}
	return nil
}

func (c *AWSClient) UpdateFunctionCode(ctx context.Context, name string, payload Payload) (*FunctionDescriptor, error) {
	input := &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(name),
	}
	if payload.Object != nil {
		input.S3Bucket = aws.String(payload.Object.Bucket)
		input.S3Key = aws.String(payload.Object.Key)
		if payload.Object.VersionID != "" {
			input.S3ObjectVersion = aws.String(payload.Object.VersionID)
		}
	} else {
		input.ZipFile = payload.Bytes
	}

	out, err := c.lambda.UpdateFunctionCode(ctx, input)
	if err != nil {
		return nil, errors.RemoteError{Op: "update function code", Err: err}
	}

	return &FunctionDescriptor{
		Name:     name,
		ARN:      aws.ToString(out.FunctionArn),
		Runtime:  string(out.Runtime),
		CodeSize: out.CodeSize,
	}, nil
}

func (c *AWSClient) PublishLayerVersion(ctx context.Context, layerName, description string, payload Payload, compatibleRuntime string) (LayerVersionRef, error) {
	content := &lambdatypes.LayerVersionContentInput{}
	if payload.Object != nil {
		content.S3Bucket = aws.String(payload.Object.Bucket)
		content.S3Key = aws.String(payload.Object.Key)
		if payload.Object.VersionID != "" {
			content.S3ObjectVersion = aws.String(payload.Object.VersionID)
		}
	} else {
		content.ZipFile = payload.Bytes
	}

	input := &lambda.PublishLayerVersionInput{
		LayerName:   aws.String(layerName),
		Description: aws.String(description),
		Content:     content,
	}
	if compatibleRuntime != "" {
		input.CompatibleRuntimes = []lambdatypes.Runtime{
			lambdatypes.Runtime(compatibleRuntime),
		}
	}

	out, err := c.lambda.PublishLayerVersion(ctx, input)
	if err != nil {
		return LayerVersionRef{}, errors.RemoteError{Op: "publish layer version", Err: err}
	}

	ref := LayerVersionRef{ARN: aws.ToString(out.LayerVersionArn)}
	if out.Content != nil {
		ref.CodeSize = out.Content.CodeSize
	}
	return ref, nil
}

func (c *AWSClient) UpdateFunctionConfiguration(ctx context.Context, name, runtime string, layerARNs []string) error {
	_, err := c.lambda.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(name),
		Runtime:      lambdatypes.Runtime(runtime),
		Layers:       layerARNs,
	})
	if err != nil {
		return errors.RemoteError{Op: "update function configuration", Err: err}
	}
	return nil
}

func (c *AWSClient) TagFunction(ctx context.Context, arn string, tags map[string]string) error {
	_, err := c.lambda.TagResource(ctx, &lambda.TagResourceInput{
		Resource: aws.String(arn),
		Tags:     tags,
	})
	if err != nil {
		return errors.RemoteError{Op: "tag function", Err: err}
	}
	return nil
}
