package corpus

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// displayHeaders are copied into the document text so metadata extraction sees them
var displayHeaders = []string{"From", "To", "Cc", "Subject", "Date"}

var wordDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// charsetReader decodes any charset known to the WHATWG encoding index
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// messageText renders an RFC 5322 message as plain text: the display
// headers followed by a blank line and the text/plain content.
func messageText(r io.Reader) (string, error) {
	msg, err := mail.ReadMessage(bufio.NewReader(r))
	if err != nil {
		return "", fmt.Errorf("failed to parse message: %w", err)
	}

	var sb strings.Builder
	for _, name := range displayHeaders {
		value := msg.Header.Get(name)
		if value == "" {
			continue
		}
		if decoded, err := wordDecoder.DecodeHeader(value); err == nil {
			value = decoded
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	body, err := extractText(textproto.MIMEHeader(msg.Header), msg.Body)
	if err != nil {
		return "", err
	}
	sb.WriteString(body)

	return sb.String(), nil
}

// extractText returns the text/plain content of a part. Multipart bodies
// are walked recursively; other content types yield nothing.
func extractText(header textproto.MIMEHeader, body io.Reader) (string, error) {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable Content-Type, treat the body as text
		return readText(header, body, "")
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		boundary, ok := params["boundary"]
		if !ok {
			return readText(header, body, params["charset"])
		}
		return extractMultipart(multipart.NewReader(body, boundary))
	case mediaType == "text/plain":
		return readText(header, body, params["charset"])
	default:
		return "", nil
	}
}

func extractMultipart(mr *multipart.Reader) (string, error) {
	var textContent bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Return what we have so far on a broken part
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", fmt.Errorf("failed to read multipart body: %w", err)
		}

		if strings.HasPrefix(strings.ToLower(part.Header.Get("Content-Disposition")), "attachment") {
			continue
		}

		text, err := extractText(part.Header, part)
		if err != nil || text == "" {
			continue
		}
		textContent.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			textContent.WriteString("\n")
		}
	}

	return textContent.String(), nil
}

// readText reads a leaf part, undoing its transfer encoding and charset
func readText(header textproto.MIMEHeader, body io.Reader, charset string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(header.Get("Content-Transfer-Encoding"))) {
	case "quoted-printable":
		body = quotedprintable.NewReader(body)
	case "base64":
		body = base64.NewDecoder(base64.StdEncoding, body)
	}

	if charset != "" && !strings.EqualFold(charset, "utf-8") && !strings.EqualFold(charset, "us-ascii") {
		if decoded, err := charsetReader(charset, body); err == nil {
			body = decoded
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read message body: %w", err)
	}
	return string(data), nil
}
