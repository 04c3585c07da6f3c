package ais

import (
	"encoding/xml"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// ListBucketResult is the XML response for ListObjectsV2.
type ListBucketResult struct {
	XMLName               xml.Name       `xml:"ListBucketResult"`
	IsTruncated           bool           `xml:"IsTruncated"`
	NextContinuationToken string         `xml:"NextContinuationToken,omitempty"`
	Contents              []ListEntry    `xml:"Contents"`
	CommonPrefixes        []CommonPrefix `xml:"CommonPrefixes,omitempty"`
}

// ListEntry represents an object in list responses. LastModified stays a
// string at the wire layer; conversion to metadata handles parsing.
type ListEntry struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	ETag         string `xml:"ETag"`
	Size         int64  `xml:"Size"`
}

// CommonPrefix groups keys that share a prefix up to the delimiter.
type CommonPrefix struct {
	Prefix string `xml:"Prefix"`
}

// InitiateMultipartUploadResult is the response for CreateMultipartUpload.
type InitiateMultipartUploadResult struct {
	XMLName  xml.Name `xml:"InitiateMultipartUploadResult"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
	UploadID string   `xml:"UploadId"`
}

// CompleteMultipartUpload is the request body for CompleteMultipartUpload.
type CompleteMultipartUpload struct {
	XMLName xml.Name        `xml:"CompleteMultipartUpload"`
	Parts   []CompletedPart `xml:"Part"`
}

// CompletedPart pairs an uploaded part number with the ETag the service
// returned for it.
type CompletedPart struct {
	PartNumber int    `xml:"PartNumber"`
	ETag       string `xml:"ETag"`
}

// decodeXML unmarshals a response body, wrapping parse failures so they
// surface as InvalidResponse rather than a bare encoding error.
func decodeXML(op string, loc objstore.Location, body []byte, v any) error {
	if err := xml.Unmarshal(body, v); err != nil {
		return &Error{
			Kind:     KindInvalidResponse,
			Op:       op,
			Location: loc,
			Message:  "malformed xml response",
			Err:      err,
		}
	}
	return nil
}
