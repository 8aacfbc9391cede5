// Package smtpfilter is an SMTP ingress surface: a content-filter hop
// that audits envelope addresses with the validation service, tags the
// message with the verdict, and relays it onward. It inspects syntax
// only; it never probes the sender's domain.
package smtpfilter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/core"
)

// Filter implements an address-auditing SMTP proxy.
type Filter struct {
	service      *core.ValidatorService
	logger       *zap.Logger
	listenAddr   string
	domain       string
	server       *smtp.Server
	relayAddr    string
	relayPort    int
	relayEnabled bool
	blockInvalid bool
	validHeader  string
	scoreHeader  string
}

// NewFilter creates a new SMTP address-audit filter.
func NewFilter(
	service *core.ValidatorService,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	relayAddr string,
	relayPort int,
	relayEnabled bool,
	blockInvalid bool,
	validHeader string,
	scoreHeader string,
) *Filter {
	return &Filter{
		service:      service,
		logger:       logger,
		listenAddr:   listenAddr,
		domain:       domain,
		relayAddr:    relayAddr,
		relayPort:    relayPort,
		relayEnabled: relayEnabled,
		blockInvalid: blockInvalid,
		validHeader:  validHeader,
		scoreHeader:  scoreHeader,
	}
}

// Start starts the SMTP filter service. It does not block.
func (f *Filter) Start() error {
	f.server = smtp.NewServer(&backend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = f.domain
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP filter service.
func (f *Filter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// tagMessage prepends the audit headers to the raw message.
func (f *Filter) tagMessage(rec core.ValidationRecord, raw []byte) []byte {
	var tagged bytes.Buffer
	fmt.Fprintf(&tagged, "%s: %t\r\n", f.validHeader, rec.IsValid)
	if rec.AI != nil {
		fmt.Fprintf(&tagged, "%s: %d (%s)\r\n", f.scoreHeader, rec.AI.SuspicionScore, rec.AI.Likelihood)
	}
	tagged.Write(raw)
	return tagged.Bytes()
}

// relay sends the tagged message to the downstream hop.
func (f *Filter) relay(sender string, recipients []string, data []byte) error {
	addr := fmt.Sprintf("%s:%d", f.relayAddr, f.relayPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// backend implements the go-smtp Backend interface
type backend struct {
	filter *Filter
}

// NewSession creates a new SMTP session
func (b *backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &session{
		filter:     b.filter,
		recipients: make([]string, 0),
	}, nil
}

// session implements the go-smtp Session interface
type session struct {
	filter     *Filter
	sender     string
	senderRec  core.ValidationRecord
	recipients []string
}

// Reset resets the session state
func (s *session) Reset() {
	s.sender = ""
	s.senderRec = core.ValidationRecord{}
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for the filter)
func (s *session) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail audits the envelope sender. With block_invalid set, a sender that
// fails syntax validation is rejected before any message data is read.
func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.sender = from
	s.senderRec = s.filter.service.ValidateOne(ctx, from)

	if !s.senderRec.IsValid && s.filter.blockInvalid {
		s.filter.logger.Info("Rejecting invalid envelope sender",
			zap.String("sender", from),
			zap.String("reason", s.senderRec.Error))
		return fmt.Errorf("550 Envelope sender rejected: %s", s.senderRec.Error)
	}

	return nil
}

// Rcpt adds a recipient
func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data tags the message with the sender verdict and relays it onward.
func (s *session) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	tagged := s.filter.tagMessage(s.senderRec, rawData)

	senderDomain := "unknown"
	if parts := strings.Split(s.sender, "@"); len(parts) == 2 {
		senderDomain = parts[1]
	}

	if s.filter.relayEnabled {
		if err := s.filter.relay(s.sender, s.recipients, tagged); err != nil {
			s.filter.logger.Error("Failed to relay message",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	} else {
		s.filter.logger.Warn("Relay disabled, message audited but not forwarded")
	}

	s.filter.logger.Info("Audited message",
		zap.String("sender", s.sender),
		zap.String("sender_domain", senderDomain),
		zap.Bool("sender_valid", s.senderRec.IsValid))

	return nil
}

// Logout handles SMTP logout (not needed for the filter)
func (s *session) Logout() error {
	return nil
}
