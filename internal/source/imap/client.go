// Package imap fetches recent inbox messages over IMAP and maps them to the
// normalized email records the scanner consumes.
package imap

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/mailsift/mailsift/internal/model"
)

// defaultSince bounds the inbox search window.
const defaultSince = 30 * 24 * time.Hour

// Client holds IMAP connection settings.
type Client struct {
	host     string
	port     string
	username string
	password string
	tls      bool
}

// NewClient creates an IMAP client configuration.
func NewClient(host, port, username, password string, tls bool) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		tls:      tls,
	}
}

// connect dials the server and authenticates. The caller must Logout the
// returned client.
func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error
	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authentication failed for %s: %w", c.username, err)
	}

	return client, nil
}

// FetchEmails selects INBOX, searches recent messages and returns them as
// normalized email records with a plain-text body preview.
func (c *Client) FetchEmails(ctx context.Context, limit int) ([]model.Email, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	criteria := &imap.SearchCriteria{
		Since: time.Now().Add(-defaultSince),
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), fetchOpts)
	defer fetchCmd.Close()

	var emails []model.Email
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		email := emailFromBuffer(buf)
		if raw := buf.FindBodySection(bodySection); raw != nil {
			email.BodyPreview = bodyPreview(raw)
		}
		emails = append(emails, email)
	}

	if err := fetchCmd.Close(); err != nil {
		return emails, fmt.Errorf("fetching messages: %w", err)
	}

	return emails, nil
}

// emailFromBuffer maps an IMAP envelope onto the normalized record.
func emailFromBuffer(buf *imapclient.FetchMessageBuffer) model.Email {
	email := model.Email{
		ID: fmt.Sprintf("imap-%d", buf.UID),
	}

	env := buf.Envelope
	if env == nil {
		return email
	}

	if env.MessageID != "" {
		email.ID = env.MessageID
	}
	email.Subject = env.Subject
	email.ReceivedDateTime = env.Date

	if len(env.From) > 0 {
		email.From = model.Recipient{EmailAddress: model.EmailAddress{
			Address: env.From[0].Addr(),
			Name:    env.From[0].Name,
		}}
	}
	for _, to := range env.To {
		email.ToRecipients = append(email.ToRecipients, model.Recipient{
			EmailAddress: model.EmailAddress{Address: to.Addr(), Name: to.Name},
		})
	}
	for _, cc := range env.Cc {
		email.CcRecipients = append(email.CcRecipients, model.Recipient{
			EmailAddress: model.EmailAddress{Address: cc.Addr(), Name: cc.Name},
		})
	}
	for _, bcc := range env.Bcc {
		email.BccRecipients = append(email.BccRecipients, model.Recipient{
			EmailAddress: model.EmailAddress{Address: bcc.Addr(), Name: bcc.Name},
		})
	}

	return email
}
