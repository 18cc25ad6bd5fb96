package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/pkg/mailer/templates"
)

// Sender delivers an already rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// TemplateMailer renders embedded templates and hands them to a Sender.
type TemplateMailer struct {
	Sender   Sender
	Branding templates.Branding
	Logger   *logrus.Logger
}

func NewTemplateMailer(sender Sender, branding templates.Branding, logger *logrus.Logger) *TemplateMailer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TemplateMailer{Sender: sender, Branding: branding, Logger: logger}
}

// Render fills job's subject and bodies from its template.
func (m *TemplateMailer) Render(job *EmailJob) error {
	if job.Template == "" {
		return nil
	}
	subject, text, html, err := templates.Render(job.Template, job.Data)
	if err != nil {
		return fmt.Errorf("render %s: %w", job.Template, err)
	}
	job.Subject, job.Text, job.HTML = strings.TrimSpace(subject), text, html
	return nil
}

func (m *TemplateMailer) Send(ctx context.Context, to, template string, data any) error {
	job := EmailJob{To: to, Template: template, Data: templates.Data(m.Branding, data)}
	if err := m.Render(&job); err != nil {
		return err
	}
	if err := m.Sender.Send(ctx, job.To, job.Subject, job.Text, job.HTML); err != nil {
		return err
	}
	m.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return nil
}
