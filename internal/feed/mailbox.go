package feed

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Mailbox lists an IMAP inbox and keeps only the messages sent by one
// configured address. Every fetch opens a fresh session; the connection is
// not kept across polls.
type Mailbox struct {
	server   string
	port     int
	username string
	password string
	sender   string
}

// NewMailbox builds a source reading the INBOX of username on server,
// filtered by the sender address.
func NewMailbox(server string, port int, username, password, sender string) *Mailbox {
	return &Mailbox{
		server:   server,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
	}
}

func (m *Mailbox) Fetch(ctx context.Context) ([]Item, error) {
	addr := fmt.Sprintf("%s:%d", m.server, m.port)
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	c, err := client.DialWithDialerTLS(dialer, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: imap dial %s: %v", ErrUnavailable, addr, err)
	}
	defer func() { _ = c.Logout() }()

	if err := c.Login(m.username, m.password); err != nil {
		return nil, fmt.Errorf("%w: imap login: %v", ErrUnavailable, err)
	}
	mbox, err := c.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("%w: imap select: %v", ErrUnavailable, err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(1, mbox.Messages)
	section := &imap.BodySectionName{Peek: true}
	fetchItems := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	msgs := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, fetchItems, msgs)
	}()

	var items []Item
	for msg := range msgs {
		it, ok := m.toItem(msg, section)
		if ok {
			items = append(items, it)
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("%w: imap fetch: %v", ErrUnavailable, err)
	}
	sortByPublished(items)
	return items, nil
}

func (m *Mailbox) toItem(msg *imap.Message, section *imap.BodySectionName) (Item, bool) {
	env := msg.Envelope
	if env == nil || len(env.From) == 0 {
		return Item{}, false
	}
	if !strings.EqualFold(env.From[0].Address(), m.sender) {
		return Item{}, false
	}
	date := env.Date.UTC()
	if date.IsZero() {
		// A mail without a Date header counts as just published.
		date = time.Now().UTC()
	}
	return Item{
		Origin:      "newsletter",
		Title:       env.Subject,
		Body:        textBody(msg.GetBody(section)),
		PublishedAt: date,
	}, true
}

// textBody extracts the first text/plain part of a raw RFC822 message.
// Best effort: an unparseable body yields an empty string, not an error.
func textBody(r io.Reader) string {
	if r == nil {
		return ""
	}
	mr, err := mail.CreateReader(r)
	if err != nil {
		return ""
	}
	for {
		p, err := mr.NextPart()
		if err != nil {
			return ""
		}
		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, err := h.ContentType()
		if err != nil || ct != "text/plain" {
			continue
		}
		b, err := io.ReadAll(p.Body)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
