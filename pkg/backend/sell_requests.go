package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"

	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
)

// SellRequestImagesField is the multipart field name carrying each photo.
const SellRequestImagesField = "images"

// SellRequestSubmission is the flat field set of the sell-car form plus its photos.
type SellRequestSubmission struct {
	Fields map[string]string
	Images []Upload
}

// SubmitSellRequest posts the submission as a single multipart request.
func (c *Client) SubmitSellRequest(ctx context.Context, sub SellRequestSubmission) (*SellRequest, error) {
	body, contentType, err := encodeMultipart(sub)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode sell request")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "sell-requests", nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var out SellRequest
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func encodeMultipart(sub SellRequestSubmission) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	keys := make([]string, 0, len(sub.Fields))
	for key := range sub.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := sub.Fields[key]
		if value == "" {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	for i, img := range sub.Images {
		name := img.Filename
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("image-%d", i+1)
		}
		contentType := img.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := writer.CreatePart(filePartHeader(SellRequestImagesField, name, contentType))
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// filePartHeader builds the headers of a multipart file part. Names are quoted
// the way mime/multipart does it, so non-ASCII filenames pass through as-is.
func filePartHeader(field, filename, contentType string) textproto.MIMEHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)
	return header
}
