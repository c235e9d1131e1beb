package forensics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/mikey/phishguard/internal/utils"
)

var clipper = utils.NewTextProcessor(nil)

// NoBodyText stands in for messages without a text part
const NoBodyText = "No readable body found."

// ErrorHeader is the only header set when a message cannot be parsed
const ErrorHeader = "Error"

// Header is one named header value
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header set
type Headers []Header

// Get returns the value of the named header
func (h Headers) Get(name string) (string, bool) {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value, true
		}
	}
	return "", false
}

// Failed reports whether the set is the parse failure marker
func (h Headers) Failed() bool {
	_, ok := h.Get(ErrorHeader)
	return ok && len(h) == 1
}

// String renders the set as an ordered object literal
func (h Headers) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, hdr := range h {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(hdr.Name))
		b.WriteString(": ")
		b.WriteString(strconv.Quote(hdr.Value))
	}
	b.WriteByte('}')
	return b.String()
}

// ParseEML decomposes an RFC 5322 message into its forensic headers and body.
//
// The headers are Subject, From, To, Date, Return-Path, X-Mailer and Received
// in that order. On failure the returned set holds a single Error header
// carrying the message, alongside the error itself.
func ParseEML(r io.Reader) (Headers, string, error) {
	entity, err := message.Read(r)
	if err != nil && !tolerable(err) {
		return failure(err), "", fmt.Errorf("failed to parse message: %w", err)
	}

	h := mail.Header{Header: entity.Header}
	headers := Headers{
		{"Subject", orDefault(subject(h), "Unknown")},
		{"From", orDefault(text(h, "From"), "Unknown")},
		{"To", orDefault(text(h, "To"), "Unknown")},
		{"Date", orDefault(h.Get("Date"), "Unknown")},
		{"Return-Path", orDefault(h.Get("Return-Path"), "None")},
		{"X-Mailer", orDefault(text(h, "X-Mailer"), "None")},
		{"Received", received(h)},
	}

	body, err := readBody(entity)
	if err != nil {
		return failure(err), "", fmt.Errorf("failed to read message body: %w", err)
	}
	if strings.TrimSpace(body) == "" {
		body = NoBodyText
	}

	return headers, body, nil
}

// FormatEvidence renders parsed headers and a size-limited body as the text
// evidence sent to a model. A clipped body ends with utils.TruncationNotice;
// a non-positive maxBody keeps the whole body.
func FormatEvidence(headers Headers, body string, maxBody int) string {
	return fmt.Sprintf("HEADERS: %s\nBODY: %s", headers, clipper.TruncateText(body, maxBody))
}

// tolerable reports whether a read error still leaves a usable entity.
// Unknown charsets and transfer encodings keep the headers and raw body.
func tolerable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

func failure(err error) Headers {
	return Headers{{ErrorHeader, err.Error()}}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func subject(h mail.Header) string {
	s, err := h.Subject()
	if err != nil {
		return h.Get("Subject")
	}
	return s
}

func text(h mail.Header, key string) string {
	s, err := h.Text(key)
	if err != nil {
		return h.Get(key)
	}
	return s
}

func received(h mail.Header) string {
	var values []string
	fields := h.FieldsByKey("Received")
	for fields.Next() {
		values = append(values, strings.Join(strings.Fields(fields.Value()), " "))
	}
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, " | ")
}

// readBody returns the first text/plain part, falling back to text/html
func readBody(entity *message.Entity) (string, error) {
	var plain, html string
	var havePlain, haveHTML bool

	err := entity.Walk(func(_ []int, part *message.Entity, err error) error {
		if err != nil {
			if tolerable(err) {
				return nil
			}
			return err
		}
		ct, _, _ := part.Header.ContentType()
		if ct == "" {
			ct = "text/plain"
		}
		switch {
		case strings.HasPrefix(ct, "multipart/"):
			return nil
		case ct == "text/plain" && !havePlain:
			b, err := io.ReadAll(part.Body)
			if err != nil {
				return err
			}
			plain, havePlain = string(b), true
		case ct == "text/html" && !haveHTML:
			b, err := io.ReadAll(part.Body)
			if err != nil {
				return err
			}
			html, haveHTML = string(b), true
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	if havePlain {
		return plain, nil
	}
	return html, nil
}

// ForwardedMessage returns the first message/rfc822 attachment of raw, the
// usual shape of a "report phishing" forward. ok is false when raw carries
// no attached message.
func ForwardedMessage(raw []byte) (inner []byte, ok bool) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !tolerable(err) {
		return nil, false
	}

	errFound := errors.New("found")
	walkErr := entity.Walk(func(path []int, part *message.Entity, err error) error {
		if err != nil || len(path) == 0 {
			return nil
		}
		ct, _, _ := part.Header.ContentType()
		if ct != "message/rfc822" {
			return nil
		}
		b, err := io.ReadAll(part.Body)
		if err != nil || len(b) == 0 {
			return nil
		}
		inner = b
		return errFound
	})

	return inner, errors.Is(walkErr, errFound)
}
