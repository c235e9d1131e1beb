package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/forensics"
	"github.com/mikey/phishguard/internal/ports"
	"github.com/mikey/phishguard/internal/report"
	"go.uber.org/zap"
)

// Intake results used for metrics
const (
	ResultReported = "reported"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// DefaultTitle is used for reports of messages without a subject
const DefaultTitle = "Reported Message"

// ErrEmptyMessage rejects deliveries without content
var ErrEmptyMessage = errors.New("message has no content")

// Recorder counts intake messages by result
type Recorder interface {
	ObserveIntake(result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveIntake(string) {}

// Options configures the SMTP intake
type Options struct {
	ListenAddress   string
	Domain          string
	ModelKey        string
	MaxMessageBytes int
	MaxBodySize     int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// SMTPIntake is a "report phishing" mailbox. Every message delivered to it
// is triaged with the configured model and a PDF report is stored.
// Forwarded messages attached as message/rfc822 are analysed in place of
// the forwarding envelope.
type SMTPIntake struct {
	analyzer ports.Analyzer
	sink     ports.ReportSink
	recorder Recorder
	logger   *zap.Logger
	opts     Options

	mu       sync.Mutex
	server   *smtp.Server
	listener net.Listener
}

// NewSMTPIntake creates a new SMTP intake
func NewSMTPIntake(
	analyzer ports.Analyzer,
	sink ports.ReportSink,
	recorder Recorder,
	logger *zap.Logger,
	opts Options,
) *SMTPIntake {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if opts.Domain == "" {
		opts.Domain = "localhost"
	}

	return &SMTPIntake{
		analyzer: analyzer,
		sink:     sink,
		recorder: recorder,
		logger:   logger,
		opts:     opts,
	}
}

// Start starts the intake service
func (in *SMTPIntake) Start() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.server != nil {
		return errors.New("intake already started")
	}

	l, err := net.Listen("tcp", in.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", in.opts.ListenAddress, err)
	}

	s := smtp.NewServer(&backend{intake: in})
	s.Addr = l.Addr().String()
	s.Domain = in.opts.Domain
	s.ReadTimeout = in.opts.ReadTimeout
	s.WriteTimeout = in.opts.WriteTimeout
	s.MaxMessageBytes = int64(in.opts.MaxMessageBytes)
	s.MaxRecipients = 50

	in.server = s
	in.listener = l

	in.logger.Info("SMTP intake starting",
		zap.String("address", s.Addr),
		zap.String("model", in.opts.ModelKey))

	go func() {
		if err := s.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			in.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the intake service
func (in *SMTPIntake) Stop() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.server == nil {
		return nil
	}
	err := in.server.Close()
	in.server = nil
	in.listener = nil
	return err
}

// Addr returns the bound listen address, empty before Start
func (in *SMTPIntake) Addr() string {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.listener == nil {
		return ""
	}
	return in.listener.Addr().String()
}

// Process triages one raw message and stores its report. It returns the
// stored report location.
func (in *SMTPIntake) Process(ctx context.Context, raw []byte) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		in.recorder.ObserveIntake(ResultRejected)
		return "", ErrEmptyMessage
	}

	if inner, ok := forensics.ForwardedMessage(raw); ok {
		in.logger.Debug("Analysing attached message", zap.Int("size", len(inner)))
		raw = inner
	}

	headers, body, err := forensics.ParseEML(bytes.NewReader(raw))
	if err != nil {
		in.logger.Warn("Message could not be parsed, forwarding marker", zap.Error(err))
	}

	ips := forensics.ExtractIPs(headers.String())
	title := DefaultTitle
	if subject, ok := headers.Get("Subject"); ok && subject != "Unknown" {
		title = subject
	}

	result := in.analyzer.Analyze(ctx, core.AnalysisRequest{
		ModelKey: in.opts.ModelKey,
		Text:     forensics.FormatEvidence(headers, body, in.opts.MaxBodySize),
		Mode:     core.ModeSingle,
	})

	pdf, err := report.Render(title, headers, result.String())
	if err != nil {
		in.recorder.ObserveIntake(ResultFailed)
		return "", err
	}

	path, err := in.sink.Save(title, pdf)
	if err != nil {
		in.recorder.ObserveIntake(ResultFailed)
		return "", err
	}

	in.recorder.ObserveIntake(ResultReported)
	in.logger.Info("Reported message triaged",
		zap.String("subject", title),
		zap.String("outcome", result.Kind.String()),
		zap.Strings("relay_ips", ips),
		zap.String("report", path))

	return path, nil
}

// backend implements the go-smtp Backend interface
type backend struct {
	intake *SMTPIntake
}

// NewSession creates a new SMTP session
func (b *backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &session{intake: b.intake, remote: c.Conn().RemoteAddr().String()}, nil
}

// session implements the go-smtp Session interface
type session struct {
	intake     *SMTPIntake
	remote     string
	sender     string
	recipients []string
}

func (s *session) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *session) Logout() error {
	return nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *session) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	s.intake.logger.Debug("Message received",
		zap.String("sender", s.sender),
		zap.Strings("recipients", s.recipients),
		zap.String("remote", s.remote),
		zap.Int("size", len(raw)))

	_, err = s.intake.Process(context.Background(), raw)
	if errors.Is(err, ErrEmptyMessage) {
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "No evidence in message",
		}
	}
	if err != nil {
		s.intake.logger.Error("Failed to triage message", zap.Error(err), zap.String("sender", s.sender))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Report could not be produced, try again later",
		}
	}

	return nil
}
