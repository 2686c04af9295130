// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage is the client for the remote media service. Assets live
// in an S3-compatible bucket; folders are key prefixes marked by an empty
// "<folder>/" object, and per-asset context travels as object metadata.
// The client wraps the AWS SDK v2 and uses path-style addressing so it
// works against CEPH, MinIO and R2 as well as AWS.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Object metadata keys. S3 returns user metadata keys lower-cased.
const (
	metaContext = "context"
	metaFormat  = "format"
	metaWidth   = "width"
	metaHeight  = "height"
)

// Destroy results, mirroring the media service's result field.
const (
	ResultOK       = "ok"
	ResultNotFound = "not found"
)

// headConcurrency bounds the metadata lookups issued while listing assets.
const headConcurrency = 8

// s3API is the subset of the S3 client used here.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Folder is a direct sub-folder of a listed folder.
type Folder struct {
	Name string
	Path string
}

// UploadParams describes where and how an asset is stored.
type UploadParams struct {
	Folder      string
	Context     string // packed "name=...|description=..." string
	ContentType string
	Format      string
	Width       int
	Height      int
}

// UploadResult is returned for a stored asset.
type UploadResult struct {
	PublicID  string
	SecureURL string
	Folder    string
	Format    string
	Width     int
	Height    int
	Bytes     int64
	CreatedAt time.Time
}

// AssetsParams selects assets by public ID prefix.
type AssetsParams struct {
	Prefix     string
	MaxResults int32
	NextCursor string
}

// Asset is one stored asset with its context.
type Asset struct {
	PublicID  string
	SecureURL string
	Folder    string
	Context   string
	Format    string
	Width     int
	Height    int
	Bytes     int64
	CreatedAt time.Time
}

// AssetsResult is one page of assets. NextCursor is empty on the last page.
type AssetsResult struct {
	Assets     []Asset
	NextCursor string
}

// DestroyResult reports the outcome of a destroy call.
type DestroyResult struct {
	Result string
}

// Client talks to the media bucket.
type Client struct {
	s3        s3API
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for delivered files
}

// New creates a media client with static credentials and path-style
// addressing. An empty endpoint targets AWS itself.
func New(endpoint, region, bucket, accessKey, secretKey, publicURL string) (*Client, error) {
	if bucket == "" || accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: account, key and secret are required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	} else {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
	}

	return newClient(s3.New(opts), bucket, endpoint, publicURL), nil
}

func newClient(api s3API, bucket, endpoint, publicURL string) *Client {
	return &Client{
		s3:        api,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// SubFolders lists the direct sub-folders of folder, in the order the
// bucket returns them.
func (c *Client) SubFolders(ctx context.Context, folder string) ([]Folder, error) {
	prefix := strings.Trim(folder, "/") + "/"
	p := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var folders []Folder
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list folders %s: %w", prefix, err)
		}
		for _, cp := range page.CommonPrefixes {
			full := strings.TrimSuffix(aws.ToString(cp.Prefix), "/")
			folders = append(folders, Folder{
				Name: path.Base(full),
				Path: full,
			})
		}
	}
	return folders, nil
}

// CreateFolder writes the folder marker. Creating an existing folder
// succeeds.
func (c *Client) CreateFolder(ctx context.Context, folder string) error {
	key := strings.Trim(folder, "/") + "/"
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          strings.NewReader(""),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return fmt.Errorf("s3 create folder %s: %w", key, err)
	}
	return nil
}

// Upload stores body under a fresh public ID inside p.Folder.
func (c *Client) Upload(ctx context.Context, body io.Reader, size int64, p UploadParams) (*UploadResult, error) {
	folder := strings.Trim(p.Folder, "/")
	publicID := path.Join(folder, uuid.NewString())

	meta := map[string]string{metaContext: p.Context}
	if p.Format != "" {
		meta[metaFormat] = p.Format
	}
	if p.Width > 0 && p.Height > 0 {
		meta[metaWidth] = strconv.Itoa(p.Width)
		meta[metaHeight] = strconv.Itoa(p.Height)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(publicID),
		Body:          body,
		ContentLength: aws.Int64(size),
		Metadata:      meta,
		ACL:           s3types.ObjectCannedACLPublicRead,
	}
	if p.ContentType != "" {
		input.ContentType = aws.String(p.ContentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("s3 upload %s: %w", publicID, err)
	}

	return &UploadResult{
		PublicID:  publicID,
		SecureURL: c.FileURL(publicID),
		Folder:    folder,
		Format:    p.Format,
		Width:     p.Width,
		Height:    p.Height,
		Bytes:     size,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Assets lists up to p.MaxResults assets whose public ID starts with
// p.Prefix, including their context. Folder markers are skipped and do not
// count towards the cap; further pages are fetched until it is filled.
func (c *Client) Assets(ctx context.Context, p AssetsParams) (*AssetsResult, error) {
	var (
		objects []s3types.Object
		cursor  = p.NextCursor
		next    string
	)
	for {
		input := &s3.ListObjectsV2Input{
			Bucket: aws.String(c.bucket),
			Prefix: aws.String(p.Prefix),
		}
		if p.MaxResults > 0 {
			input.MaxKeys = aws.Int32(p.MaxResults - int32(len(objects)))
		}
		if cursor != "" {
			input.ContinuationToken = aws.String(cursor)
		}

		out, err := c.s3.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("s3 list assets %s: %w", p.Prefix, err)
		}
		for _, obj := range out.Contents {
			if strings.HasSuffix(aws.ToString(obj.Key), "/") {
				continue
			}
			objects = append(objects, obj)
		}

		next = ""
		if aws.ToBool(out.IsTruncated) {
			next = aws.ToString(out.NextContinuationToken)
		}
		if next == "" || p.MaxResults <= 0 || int32(len(objects)) >= p.MaxResults {
			break
		}
		cursor = next
	}

	// Entries stay nil for objects deleted between the list and the head.
	found := make([]*Asset, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(headConcurrency)
	for i, obj := range objects {
		i, obj := i, obj
		g.Go(func() error {
			asset, err := c.headAsset(gctx, obj)
			if err != nil {
				return err
			}
			found[i] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &AssetsResult{Assets: make([]Asset, 0, len(found))}
	for _, a := range found {
		if a != nil {
			result.Assets = append(result.Assets, *a)
		}
	}
	result.NextCursor = next
	return result, nil
}

// headAsset fetches the metadata of a listed object. A missing object
// yields (nil, nil).
func (c *Client) headAsset(ctx context.Context, obj s3types.Object) (*Asset, error) {
	key := aws.ToString(obj.Key)
	head, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3 head %s: %w", key, err)
	}

	asset := &Asset{
		PublicID:  key,
		SecureURL: c.FileURL(key),
		Folder:    folderOf(key),
		Context:   head.Metadata[metaContext],
		Format:    head.Metadata[metaFormat],
		Bytes:     aws.ToInt64(obj.Size),
		CreatedAt: aws.ToTime(obj.LastModified),
	}
	asset.Width, _ = strconv.Atoi(head.Metadata[metaWidth])
	asset.Height, _ = strconv.Atoi(head.Metadata[metaHeight])
	return asset, nil
}

// Destroy deletes an asset. A missing asset is reported through the
// result, not as an error.
func (c *Client) Destroy(ctx context.Context, publicID string) (*DestroyResult, error) {
	if publicID == "" || strings.HasSuffix(publicID, "/") {
		return &DestroyResult{Result: ResultNotFound}, nil
	}

	_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		if isNotFound(err) {
			return &DestroyResult{Result: ResultNotFound}, nil
		}
		return nil, fmt.Errorf("s3 head %s: %w", publicID, err)
	}

	_, err = c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 delete %s: %w", publicID, err)
	}
	return &DestroyResult{Result: ResultOK}, nil
}

// FileURL returns the delivery URL for a public ID. Uses the configured
// public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(publicID string) string {
	segments := strings.Split(publicID, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	escaped := strings.Join(segments, "/")

	if c.publicURL != "" {
		return c.publicURL + "/" + escaped
	}
	return c.endpoint + "/" + c.bucket + "/" + escaped
}

// Bucket returns the name of the media bucket.
func (c *Client) Bucket() string {
	return c.bucket
}

// folderOf returns the folder part of a public ID, or "" at bucket level.
func folderOf(key string) string {
	if dir := path.Dir(key); dir != "." && dir != "/" {
		return dir
	}
	return ""
}

func isNotFound(err error) bool {
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
