package inspector

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// scanRoots is the fixed candidate directory list, walked recursively.
// The repository root itself is scanned too, but non-recursively. The
// list is deliberately non-exhaustive: files outside it do not
// contribute mentions, and widening it would change budget output.
var scanRoots = []string{"src", "lib", "infrastructure", "cloudformation", "templates"}

// skipDirs are pruned from the walk entirely.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// scanExts are the only file extensions whose content is scanned.
var scanExts = map[string]bool{
	".ts":   true,
	".js":   true,
	".json": true,
	".yml":  true,
	".yaml": true,
	".py":   true,
}

// categoryPatterns match both CloudFormation resource types and CDK
// construct calls. Order is fixed; mention order depends on it.
var categoryPatterns = []struct {
	category string
	re       *regexp.Regexp
}{
	{CategoryEC2, regexp.MustCompile(`AWS::EC2::Instance|new\s+ec2\.Instance\(`)},
	{CategoryRDS, regexp.MustCompile(`AWS::RDS::DBInstance|new\s+rds\.DatabaseInstance\(`)},
	{CategoryS3, regexp.MustCompile(`AWS::S3::Bucket|new\s+s3\.Bucket\(`)},
	{CategoryLambda, regexp.MustCompile(`AWS::Lambda::Function|new\s+lambda\.Function\(`)},
	{CategoryELB, regexp.MustCompile(`AWS::ElasticLoadBalancingV2::LoadBalancer|new\s+elbv2\.ApplicationLoadBalancer\(`)},
}

// scannedFile is one candidate file with its content loaded.
type scannedFile struct {
	rel  string
	data []byte
}

// walkResult carries everything a single pass over the scan roots yields.
type walkResult struct {
	files        []scannedFile
	sawTerraform bool
}

// collectFiles walks the fixed scan roots, then picks up root-level
// files without recursing, and loads every scannable file. Walk and
// read errors degrade to whatever was collected so far; the inspection
// never fails on an unreadable subtree.
func (i *Inspector) collectFiles(ctx context.Context) walkResult {
	var res walkResult
	for _, dir := range scanRoots {
		base := filepath.Join(i.root, dir)
		if !dirExists(base) {
			continue
		}
		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			ext := strings.ToLower(filepath.Ext(d.Name()))
			if ext == ".tf" {
				res.sawTerraform = true
			}
			if !scanExts[ext] {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			rel, err := filepath.Rel(i.root, path)
			if err != nil {
				rel = path
			}
			res.files = append(res.files, scannedFile{rel: filepath.ToSlash(rel), data: data})
			return nil
		})
	}

	entries, err := os.ReadDir(i.root)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext == ".tf" {
				res.sawTerraform = true
			}
			if !scanExts[ext] {
				continue
			}
			data, err := os.ReadFile(filepath.Join(i.root, e.Name()))
			if err != nil {
				continue
			}
			res.files = append(res.files, scannedFile{rel: e.Name(), data: data})
		}
	}

	i.filesScanned.Add(ctx, int64(len(res.files)))
	return res
}

// scanMentions applies the category patterns to every collected file.
// A file contributes one mention per matching category; duplicates
// across files are kept, not deduplicated.
func scanMentions(files []scannedFile) []Mention {
	var mentions []Mention
	for _, f := range files {
		for _, p := range categoryPatterns {
			if p.re.Match(f.data) {
				mentions = append(mentions, Mention{Category: p.category, File: f.rel})
			}
		}
	}
	return mentions
}
