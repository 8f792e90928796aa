// Package eml provides a Normaliser for RFC 5322 email messages.
// Routing headers are dropped so forwarded copies of the same message
// compare on subject and body alone.
package eml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
	"github.com/custodia-labs/neardup/internal/normalisers/html"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles EML (email) documents.
type Normaliser struct {
	html *html.Normaliser
}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{html: html.New()}
}

// Format returns "eml".
func (n *Normaliser) Format() string {
	return "eml"
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".eml"}
}

// Normalise returns the decoded subject followed by the message body.
// Plain-text parts are preferred over HTML parts.
func (n *Normaliser) Normalise(ctx context.Context, content []byte) (string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: parsing message: %v", domain.ErrInvalidInput, err)
	}

	body, err := n.extractBody(ctx, msg.Header.Get("Content-Type"), msg.Body)
	if err != nil {
		return "", err
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	if subject == "" {
		return strings.TrimSpace(body), nil
	}
	return strings.TrimSpace(subject + "\n\n" + body), nil
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// extractBody returns the text of a message body with the given content type.
func (n *Normaliser) extractBody(ctx context.Context, contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "text/plain"
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", domain.ErrInvalidInput, err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable content type: treat as plain text
		return string(body), nil
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return n.extractMultipart(ctx, body, params["boundary"])
	case mediaType == "text/html":
		return n.html.Normalise(ctx, body)
	default:
		return string(body), nil
	}
}

// extractMultipart joins the text parts of a multipart body, falling back
// to the HTML parts when there is no plain text.
func (n *Normaliser) extractMultipart(ctx context.Context, body []byte, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	var textParts, htmlParts []string

	for {
		part, err := mr.NextPart()
		if err != nil {
			// io.EOF ends the message; anything else is a truncated part
			break
		}

		mediaType, params, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "text/plain"
		}

		content, readErr := io.ReadAll(part)
		part.Close()
		if readErr != nil {
			continue
		}

		switch {
		case mediaType == "text/plain":
			textParts = append(textParts, strings.TrimSpace(string(content)))
		case mediaType == "text/html":
			text, err := n.html.Normalise(ctx, content)
			if err == nil {
				htmlParts = append(htmlParts, text)
			}
		case strings.HasPrefix(mediaType, "multipart/"):
			nested, err := n.extractMultipart(ctx, content, params["boundary"])
			if err == nil && nested != "" {
				textParts = append(textParts, nested)
			}
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n"), nil
	}
	return strings.Join(htmlParts, "\n"), nil
}
