package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/movimail/movimail/pkg/models"
)

const maxMessages = 100

// Gmail reads bank notification mail through the Gmail API with a readonly
// scope. Credentials and token follow the usual two-file OAuth layout.
type Gmail struct {
	svc    *gmail.Service
	logger *log.Logger
}

// NewGmail builds an authenticated Gmail source from the OAuth client
// credentials and a previously obtained user token.
func NewGmail(ctx context.Context, credentialsPath, tokenPath string, logger *log.Logger) (*Gmail, error) {
	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading gmail credentials: %w", err)
	}

	cfg, err := google.ConfigFromJSON(raw, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing gmail credentials: %w", err)
	}

	token, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("reading gmail token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("building gmail service: %w", err)
	}

	return &Gmail{svc: svc, logger: logger}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}
	return token, nil
}

// FetchBankEmails searches for mail from the given sender domains within
// the last daysBack days and returns each message's headers and plain-text
// body.
func (g *Gmail) FetchBankEmails(ctx context.Context, domains []string, daysBack int) ([]models.Email, error) {
	froms := make([]string, 0, len(domains))
	for _, d := range domains {
		froms = append(froms, "from:"+d)
	}
	query := fmt.Sprintf("(%s) newer_than:%dd", strings.Join(froms, " OR "), daysBack)

	res, err := g.svc.Users.Messages.List("me").Q(query).MaxResults(maxMessages).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	emails := make([]models.Email, 0, len(res.Messages))
	for _, m := range res.Messages {
		email, err := g.getEmail(ctx, m.Id)
		if err != nil {
			g.logger.Warn("failed to fetch message", "id", m.Id, "error", err)
			continue
		}
		emails = append(emails, email)
	}

	g.logger.Debug("fetched bank emails", "query", query, "count", len(emails))
	return emails, nil
}

func (g *Gmail) getEmail(ctx context.Context, id string) (models.Email, error) {
	msg, err := g.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return models.Email{}, fmt.Errorf("getting message: %w", err)
	}

	email := models.Email{ID: id}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				email.Subject = h.Value
			case "From":
				email.From = h.Value
			case "Date":
				email.Date = h.Value
			}
		}
		email.Body = extractBody(msg.Payload)
	}
	return email, nil
}

// extractBody pulls the plain-text part out of a message payload, taking
// the HTML part only when no plain text exists.
func extractBody(payload *gmail.MessagePart) string {
	if len(payload.Parts) == 0 {
		if payload.MimeType == "text/plain" && payload.Body != nil {
			return decodeBody(payload.Body.Data)
		}
		return ""
	}

	var html string
	for _, part := range payload.Parts {
		if part.Body == nil {
			continue
		}
		switch part.MimeType {
		case "text/plain":
			if body := decodeBody(part.Body.Data); body != "" {
				return body
			}
		case "text/html":
			if html == "" {
				html = decodeBody(part.Body.Data)
			}
		}
	}
	return html
}

func decodeBody(data string) string {
	if data == "" {
		return ""
	}
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
