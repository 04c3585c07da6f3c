package s3

import (
	"context"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

const listPageSize = 1000

// List lazily yields every object under prefix, fetching pages on demand.
func (s *Store) List(ctx context.Context, prefix objstore.Location) iter.Seq2[*objstore.ObjectMeta, error] {
	return func(yield func(*objstore.ObjectMeta, error) bool) {
		p := s3.NewListObjectsV2Paginator(s.client, s.listInput(prefix, ""))
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				yield(nil, wrapErr("list", prefix, err))
				return
			}
			for _, obj := range page.Contents {
				meta, ok := entryMeta(obj)
				if !ok {
					continue
				}
				if !yield(&meta, nil) {
					return
				}
			}
		}
	}
}

// ListWithDelimiter groups keys under prefix into direct-child objects and
// common prefixes. Unlike backends without delimiter support, the grouping
// happens server side.
func (s *Store) ListWithDelimiter(ctx context.Context, prefix objstore.Location) (objstore.ListResult, error) {
	var result objstore.ListResult

	p := s3.NewListObjectsV2Paginator(s.client, s.listInput(prefix, "/"))
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return objstore.ListResult{}, wrapErr("list", prefix, err)
		}
		for _, obj := range page.Contents {
			if meta, ok := entryMeta(obj); ok {
				result.Objects = append(result.Objects, meta)
			}
		}
		for _, cp := range page.CommonPrefixes {
			if v := aws.ToString(cp.Prefix); v != "" {
				result.CommonPrefixes = append(result.CommonPrefixes, v)
			}
		}
	}
	return result, nil
}

func (s *Store) listInput(prefix objstore.Location, delimiter string) *s3.ListObjectsV2Input {
	in := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(listPageSize),
	}
	if prefix != "" {
		in.Prefix = aws.String(string(prefix))
	}
	if delimiter != "" {
		in.Delimiter = aws.String(delimiter)
	}
	return in
}

// entryMeta converts a list entry. Keys that do not parse as valid
// locations are skipped.
func entryMeta(obj types.Object) (objstore.ObjectMeta, bool) {
	loc, err := objstore.ParseLocation(aws.ToString(obj.Key))
	if err != nil {
		return objstore.ObjectMeta{}, false
	}
	return objectMeta(loc, obj.ETag, nil, aws.ToInt64(obj.Size), obj.LastModified), true
}
