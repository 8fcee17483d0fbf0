package providers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"sightline/pkg/integrations"
)

// DiscoverCloudwatchLogGroups lists the log groups reachable with the
// supplied transient AWS credentials. Used to populate the selection
// UI before any config is persisted.
func DiscoverCloudwatchLogGroups(ctx context.Context, creds map[string]string) (any, error) {
	keyID := creds["aws_access_key_id"]
	secret := creds["aws_secret_access_key"]
	region := creds["region"]
	if keyID == "" || secret == "" || region == "" {
		return nil, integrations.Invalid("cloudwatch requires aws_access_key_id, aws_secret_access_key and region")
	}
	cli := cloudwatchlogs.NewFromConfig(aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(keyID, secret, ""),
	})
	var groups []string
	var nextToken *string
	for {
		out, err := cli.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{NextToken: nextToken})
		if err != nil {
			return nil, err
		}
		for _, g := range out.LogGroups {
			groups = append(groups, aws.ToString(g.LogGroupName))
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return groups, nil
}
