//go:build e2e

package e2e

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GetAWSConfig returns the shared AWS config pointing to LocalStack.
func GetAWSConfig(t *testing.T) aws.Config {
	if awsCfg.Region == "" {
		t.Fatal("AWS Config not initialized (TestMain didn't run?)")
	}
	return awsCfg
}

// ProvisionEC2Instance creates a dummy instance in LocalStack.
func ProvisionEC2Instance(t *testing.T, client *ec2.Client, tags map[string]string) string {
	t.Helper()

	var tagSpecs []types.Tag
	for k, v := range tags {
		tagSpecs = append(tagSpecs, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}

	runOut, err := client.RunInstances(context.TODO(), &ec2.RunInstancesInput{
		ImageId:      aws.String("ami-12345678"),
		InstanceType: types.InstanceTypeT3Micro,
		MinCount:     aws.Int32(1),
		MaxCount:     aws.Int32(1),
		TagSpecifications: []types.TagSpecification{
			{
				ResourceType: types.ResourceTypeInstance,
				Tags:         tagSpecs,
			},
		},
	})
	if err != nil {
		t.Fatalf("Failed to provision EC2: %v", err)
	}

	id := *runOut.Instances[0].InstanceId
	t.Logf("Provisioned instance %s with tags %v", id, tags)
	return id
}

// CreateBucket makes an S3 bucket in LocalStack.
func CreateBucket(t *testing.T, client *s3.Client, name string) {
	t.Helper()
	_, err := client.CreateBucket(context.TODO(), &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		t.Fatalf("Failed to create bucket %s: %v", name, err)
	}
}

// WriteProjectFixture lays down a minimal CDK TypeScript project with
// enough resource mentions to exercise the inspection heuristics.
// Returns the project root.
func WriteProjectFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"package.json": `{
  "name": "checkout-api",
  "dependencies": {
    "aws-cdk-lib": "^2.100.0",
    "@aws-sdk/client-s3": "^3.400.0"
  }
}`,
		"cdk.json": `{"app": "npx ts-node bin/app.ts"}`,
		"src/stack.ts": `import * as rds from 'aws-cdk-lib/aws-rds';
// new ec2.Instance, DatabaseInstance, s3.Bucket, lambda.Function,
// ApplicationLoadBalancer wiring lives here.
const db = new rds.DatabaseInstance(this, 'Db', {});
const bucket = new s3.Bucket(this, 'Assets', {});
const fn = new lambda.Function(this, 'Worker', {});
const lb = new ApplicationLoadBalancer(this, 'Edge', {});
const host = new ec2.Instance(this, 'Bastion', {});
`,
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return root
}

// GetBinaryPath builds the CLI and returns the binary path.
func GetBinaryPath(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "costforge")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/costforge")
	cmd.Dir = "../../"
	cmd.Env = os.Environ()

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Build failed: %s", out)
	}
	return binPath
}
