package ais

import (
	"context"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// ListOptions control a single list request.
type ListOptions struct {
	// Prefix filters keys to those beginning with it.
	Prefix objstore.Location
	// Token resumes listing from a previous page's NextToken.
	Token string
	// MaxKeys caps the page size; zero means DefaultMaxKeys.
	MaxKeys int
}

// ListPage is one decoded page of list results.
type ListPage struct {
	Entries     []objstore.ObjectMeta
	NextToken   string
	IsTruncated bool
}

// Terminal reports whether paging must stop after this page. A truncated
// page without a continuation token is still terminal; trusting IsTruncated
// alone could loop forever on the same page.
func (p *ListPage) Terminal() bool {
	return !p.IsTruncated || p.NextToken == ""
}

// ListObjects fetches one page of keys under a prefix. Entries whose key
// does not parse as a valid location are skipped.
func (c *Client) ListObjects(ctx context.Context, opts ListOptions) (*ListPage, error) {
	maxKeys := opts.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	q := url.Values{}
	q.Set(QparamListType, ListTypeV2)
	q.Set(QparamMaxKeys, strconv.Itoa(maxKeys))
	if opts.Prefix != "" {
		q.Set(QparamPrefix, string(opts.Prefix))
	}
	if opts.Token != "" {
		q.Set(QparamContinuationToken, opts.Token)
	}

	resp, err := c.doOK(ctx, &request{
		op:     "list",
		method: http.MethodGet,
		url:    c.baseURL,
		query:  q,
	})
	if err != nil {
		return nil, err
	}
	body, err := readAll(resp)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Op: "list", Message: "reading list response", Err: err}
	}

	var result ListBucketResult
	if err := decodeXML("list", opts.Prefix, body, &result); err != nil {
		return nil, err
	}

	page := &ListPage{
		NextToken:   result.NextContinuationToken,
		IsTruncated: result.IsTruncated,
		Entries:     make([]objstore.ObjectMeta, 0, len(result.Contents)),
	}
	now := time.Now().UTC()
	for _, entry := range result.Contents {
		loc, err := objstore.ParseLocation(entry.Key)
		if err != nil {
			c.logger.Warn().Str("key", entry.Key).Msg("skipping unparseable key in list response")
			continue
		}
		lm := now
		if t, err := time.Parse(time.RFC3339, entry.LastModified); err == nil {
			lm = t
		}
		page.Entries = append(page.Entries, objstore.ObjectMeta{
			Location:     loc,
			Size:         entry.Size,
			LastModified: lm,
			ETag:         objstore.UnquoteETag(entry.ETag),
		})
	}
	return page, nil
}

// List lazily yields every object under prefix, fetching pages on demand.
// The sequence is single-consumer and not restartable; a page fetch failure
// yields exactly one error element and then stops.
func (c *Client) List(ctx context.Context, prefix objstore.Location) iter.Seq2[*objstore.ObjectMeta, error] {
	return func(yield func(*objstore.ObjectMeta, error) bool) {
		var token string
		for {
			page, err := c.ListObjects(ctx, ListOptions{Prefix: prefix, Token: token})
			if err != nil {
				yield(nil, err)
				return
			}
			for i := range page.Entries {
				if !yield(&page.Entries[i], nil) {
					return
				}
			}
			if page.Terminal() {
				return
			}
			token = page.NextToken
		}
	}
}

// ListWithDelimiter groups keys under prefix into direct-child objects and
// directory-style common prefixes. The native listing has no delimiter
// support, so grouping happens client side over the full listing.
func (c *Client) ListWithDelimiter(ctx context.Context, prefix objstore.Location) (objstore.ListResult, error) {
	var result objstore.ListResult
	seen := make(map[string]bool)

	for meta, err := range c.List(ctx, prefix) {
		if err != nil {
			return objstore.ListResult{}, err
		}
		if cp, ok := objstore.DelimitKey(prefix, meta.Location); ok {
			if !seen[cp] {
				seen[cp] = true
				result.CommonPrefixes = append(result.CommonPrefixes, cp)
			}
			continue
		}
		result.Objects = append(result.Objects, *meta)
	}
	return result, nil
}
